package optical

import (
	"fmt"
	"strconv"
	"strings"
)

// EvalExpr evaluates a port-index arithmetic expression containing only
// integer literals, "+ - * /" and parentheses. Operator-configured formulas
// arrive as free text from the settings store, so anything outside that
// character set is rejected instead of interpreted.
func EvalExpr(expr string) (int64, error) {
	tokens, err := tokenize(expr)
	if err != nil {
		return 0, err
	}
	p := &exprParser{tokens: tokens}
	value, err := p.parseSum()
	if err != nil {
		return 0, err
	}
	if p.pos != len(p.tokens) {
		return 0, fmt.Errorf("unexpected token %q in expression %q", p.tokens[p.pos], expr)
	}
	return value, nil
}

func tokenize(expr string) ([]string, error) {
	var tokens []string
	i := 0
	for i < len(expr) {
		c := expr[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '+' || c == '-' || c == '*' || c == '/' || c == '(' || c == ')':
			tokens = append(tokens, string(c))
			i++
		case c >= '0' && c <= '9':
			j := i
			for j < len(expr) && expr[j] >= '0' && expr[j] <= '9' {
				j++
			}
			tokens = append(tokens, expr[i:j])
			i = j
		default:
			return nil, fmt.Errorf("illegal character %q in expression %q", c, expr)
		}
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("empty expression")
	}
	return tokens, nil
}

type exprParser struct {
	tokens []string
	pos    int
}

func (p *exprParser) peek() string {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return ""
}

// parseSum handles "+" and "-".
func (p *exprParser) parseSum() (int64, error) {
	left, err := p.parseProduct()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case "+":
			p.pos++
			right, err := p.parseProduct()
			if err != nil {
				return 0, err
			}
			left += right
		case "-":
			p.pos++
			right, err := p.parseProduct()
			if err != nil {
				return 0, err
			}
			left -= right
		default:
			return left, nil
		}
	}
}

// parseProduct handles "*" and "/".
func (p *exprParser) parseProduct() (int64, error) {
	left, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case "*":
			p.pos++
			right, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			left *= right
		case "/":
			p.pos++
			right, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			if right == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			left /= right
		default:
			return left, nil
		}
	}
}

func (p *exprParser) parseUnary() (int64, error) {
	if p.peek() == "-" {
		p.pos++
		value, err := p.parseUnary()
		return -value, err
	}
	return p.parseAtom()
}

func (p *exprParser) parseAtom() (int64, error) {
	token := p.peek()
	switch {
	case token == "(":
		p.pos++
		value, err := p.parseSum()
		if err != nil {
			return 0, err
		}
		if p.peek() != ")" {
			return 0, fmt.Errorf("missing closing parenthesis")
		}
		p.pos++
		return value, nil
	case token == "":
		return 0, fmt.Errorf("unexpected end of expression")
	default:
		value, err := strconv.ParseInt(token, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("expected number, got %q", token)
		}
		p.pos++
		return value, nil
	}
}

// substituteVars replaces named placeholders (slot, module, port) with their
// numeric values before evaluation, so the evaluator itself only ever sees
// digits and operators.
func substituteVars(expr string, vars map[string]int) string {
	// Longer names first so "port" does not clobber "portIndex"-style names.
	s := expr
	for _, name := range []string{"module", "slot", "port"} {
		if v, ok := vars[name]; ok {
			s = strings.ReplaceAll(s, name, strconv.Itoa(v))
		}
	}
	return s
}
