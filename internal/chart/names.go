package chart

// defaultDisplayNames maps sheet keys to section titles.
var defaultDisplayNames = map[string]string{
	"ss-rsrp": "Signal Strength Levels [dBm]",
	"ss-rsrq": "Signal Quality [dB]",
	"ss-sinr": "Signal to Interference & Noise Ratio [dB]",
	"rsrp":    "Reference Signal Received Power [dBm]",
	"rsrq":    "Reference Signal Received Quality [dB]",
	"sinr":    "SINR [dB]",
	"rssi":    "Received Signal Strength Indicator [dBm]",
}

// DisplayNames resolves sheet keys to human labels.
type DisplayNames map[string]string

// NewDisplayNames returns the built-in labels with overrides applied on top.
func NewDisplayNames(overrides map[string]string) DisplayNames {
	n := make(DisplayNames, len(defaultDisplayNames)+len(overrides))
	for k, v := range defaultDisplayNames {
		n[k] = v
	}
	for k, v := range overrides {
		n[k] = v
	}
	return n
}

// Lookup returns the label for key, or key itself when none is known.
func (n DisplayNames) Lookup(key string) string {
	if v, ok := n[key]; ok && v != "" {
		return v
	}
	return key
}
