package diagnosis

// label is the operator-facing interpretation of one canonical alarm code.
type label struct {
	Short string
	Long  string
}

// diagnosisLabels maps canonical alarm codes to root-cause labels. The codes
// on the left are what vendor remap tables normalize to.
var diagnosisLabels = map[string]label{
	"GPON_LOS": {
		Short: "Fiber cut",
		Long:  "Loss of signal: the OLT receives no light from the ONU. The fiber is most likely cut or disconnected.",
	},
	"GPON_LOSI": {
		Short: "Fiber cut",
		Long:  "Loss of signal for this ONU: no upstream light on an otherwise healthy PON. Drop cable cut or connector unplugged.",
	},
	"GPON_LOFI": {
		Short: "Fiber attenuation",
		Long:  "Loss of frame delineation: upstream light arrives but cannot be framed. Typically severe attenuation or a failing laser.",
	},
	"GPON_DYING_GASP": {
		Short: "Power outage",
		Long:  "The ONU signalled dying gasp before going dark: it lost electrical power. Subscriber-side outage, not a fiber problem.",
	},
	"GPON_SF": {
		Short: "Fiber attenuation",
		Long:  "Signal fail: upstream bit error rate above the fail threshold. Dirty connector, macrobend or degraded splice.",
	},
	"GPON_SD": {
		Short: "Fiber attenuation",
		Long:  "Signal degraded: upstream bit error rate above the degrade threshold. Link still up but marginal.",
	},
	"GPON_DOW": {
		Short: "Fiber attenuation",
		Long:  "Drift of window: the ONU's ranging drifted beyond tolerance, usually from a changing optical path.",
	},
	"GPON_SUF": {
		Short: "Fiber attenuation",
		Long:  "Startup failure: the ONU attempted activation but ranging failed. Marginal optics or excess distance.",
	},
	"GPON_LOAM": {
		Short: "ONU unresponsive",
		Long:  "Loss of PLOAM messaging: the ONU stopped answering management messages. Firmware hang or failing hardware.",
	},
	"GPON_DF": {
		Short: "ONU deactivated",
		Long:  "The ONU was deactivated by the OLT or an operator. Check for administrative action before rolling a truck.",
	},
	"GPON_AUTH_FAIL": {
		Short: "Authentication failure",
		Long:  "The ONU failed authentication against the OLT. Serial/password mismatch or a replaced subscriber unit.",
	},
}

// No-alarm wording. The device reporting nothing for the link is a valid
// outcome, not an error.
const (
	noAlarmShort = "No active alarms"
	noAlarmLong  = "The device reports no active alarm for this link. If the subscriber is still down, the fault is likely beyond the access segment."
)
