package qaa

// Flags is a bitmask of quality conditions raised during a retrieval.
// Each condition is recoverable: the offending quantity is clamped to a
// documented floor or ceiling and the bit records that the clamp fired.
// Bits are never cleared once set; a zero Flags means no clamp was
// exercised. Bit positions follow the NASA OCSSW convention.
type Flags uint8

const (
	// FlagNegativeBackscatter: the derived reference particulate
	// backscattering was negative and was floored to 0.001 m⁻¹.
	FlagNegativeBackscatter Flags = 0x02

	// FlagDegenerateDecomposition: the decomposition denominator
	// zeta−symbol was within 1e-10 of zero and was substituted.
	FlagDegenerateDecomposition Flags = 0x04

	// FlagDecompositionOutOfBounds: the provisional aph/a ratio at the
	// blue band fell outside [0.15, 0.6] (or was non-finite) and the
	// decomposition was re-derived from the empirical ratio regression.
	FlagDecompositionOutOfBounds Flags = 0x08

	// FlagNegativeAph: phytoplankton absorption went negative at one or
	// more bands and was floored to 0.001 m⁻¹.
	FlagNegativeAph Flags = 0x10

	// FlagChlorophyllUndefined: chlorophyll could not be derived
	// (non-positive aphstar or non-finite aph at the blue band) and was
	// reported as 0.
	FlagChlorophyllUndefined Flags = 0x20
)

// Has reports whether all bits of q are set.
func (f Flags) Has(q Flags) bool { return f&q == q }

var flagMessages = []struct {
	bit Flags
	msg string
}{
	{FlagNegativeBackscatter, "negative particulate backscattering floored at reference band"},
	{FlagDegenerateDecomposition, "absorption decomposition denominator near zero"},
	{FlagDecompositionOutOfBounds, "aph/a ratio out of bounds, decomposition re-derived"},
	{FlagNegativeAph, "negative phytoplankton absorption floored"},
	{FlagChlorophyllUndefined, "chlorophyll undefined, reported as zero"},
}

// Messages returns a human-readable description for every set bit.
func (f Flags) Messages() []string {
	var msgs []string
	for _, fm := range flagMessages {
		if f.Has(fm.bit) {
			msgs = append(msgs, fm.msg)
		}
	}
	return msgs
}
