package field

// Values of the MOD field.
const (
	ModeMemory       = 0b00 // memory, no displacement unless RM is the direct address escape
	ModeMemoryDisp8  = 0b01 // memory, 8 bit sign extended displacement
	ModeMemoryDisp16 = 0b10 // memory, 16 bit displacement
	ModeRegister     = 0b11 // register to register, no displacement
)

// DirectAddress is the RM value that selects a 16 bit direct address when MOD is ModeMemory.
const DirectAddress = 0b110

// DisplacementSize returns the number of displacement bytes that follow the
// MOD REG R/M byte for the given MOD and R/M values.
func DisplacementSize(mod, rm uint16) int {
	switch mod {
	case ModeMemory:
		if rm == DirectAddress {
			return 2
		}
		return 0
	case ModeMemoryDisp8:
		return 1
	case ModeMemoryDisp16:
		return 2
	default:
		return 0
	}
}

// DataHighPresent returns whether a DataHigh byte follows the DataLow byte for the
// given W and S values. With S set an 8 bit immediate is sign extended to a word.
func DataHighPresent(width, signExtend uint16) bool {
	return width == 1 && signExtend != 1
}
