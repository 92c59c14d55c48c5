package units

// Conversion factors. KiCad's internal unit is the nanometre; this
// toolkit works in millimetres and degrees and converts only at its
// boundaries.
const (
	mmPerInch         = 25.4
	decidegreesPerDeg = 10.0
)

// MMToNM converts millimetres to nanometres.
func MMToNM(mm float64) float64 { return mm * 1e6 }

// NMToMM converts nanometres to millimetres.
func NMToMM(nm float64) float64 { return nm * 1e-6 }

// MMToInch converts millimetres to inches.
func MMToInch(mm float64) float64 { return mm / mmPerInch }

// InchToMM converts inches to millimetres.
func InchToMM(inch float64) float64 { return inch * mmPerInch }

// NMToInch converts nanometres directly to inches.
func NMToInch(nm float64) float64 { return MMToInch(NMToMM(nm)) }

// InchToNM converts inches directly to nanometres.
func InchToNM(inch float64) float64 { return MMToNM(InchToMM(inch)) }

// DegToDecidegrees converts degrees to KiCad's decidegree angle unit.
func DegToDecidegrees(deg float64) float64 { return deg * decidegreesPerDeg }

// DecidegreesToDeg converts KiCad decidegrees back to degrees.
func DecidegreesToDeg(decideg float64) float64 { return decideg / decidegreesPerDeg }

// NormalizeAngle reduces deg to the half-open range (-180, 180], the
// convention the clone engine uses when composing two footprints'
// orientations.
func NormalizeAngle(deg float64) float64 {
	for deg > 180 {
		deg -= 360
	}
	for deg <= -180 {
		deg += 360
	}
	return deg
}
