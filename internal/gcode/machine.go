package gcode

// SetHotendTemp returns M104. tool selects a hotend other than the
// active one.
func SetHotendTemp(temp uint16, tool Opt[uint8]) string {
	return newLine("M104").integer('S', uint64(temp)).optIndex('T', tool).String()
}

// WaitHotendTemp returns M109, which blocks until the hotend reaches temp.
func WaitHotendTemp(temp uint16, tool Opt[uint8]) string {
	return newLine("M109").integer('S', uint64(temp)).optIndex('T', tool).String()
}

// SetBedTemp returns M140.
func SetBedTemp(temp uint8) string {
	return newLine("M140").integer('S', uint64(temp)).String()
}

// WaitBedTemp returns M190.
func WaitBedTemp(temp uint8) string {
	return newLine("M190").integer('S', uint64(temp)).String()
}

// SetChamberTemp returns M141.
func SetChamberTemp(temp uint8) string {
	return newLine("M141").integer('S', uint64(temp)).String()
}

// WaitChamberTemp returns M191.
func WaitChamberTemp(temp uint8) string {
	return newLine("M191").integer('S', uint64(temp)).String()
}

// SetFanSpeed returns M106 with speed 0-255. fan selects a fan other
// than the default one.
func SetFanSpeed(speed uint8, fan Opt[uint8]) string {
	return newLine("M106").integer('S', uint64(speed)).optIndex('P', fan).String()
}

// FanOff returns M107.
func FanOff(fan Opt[uint8]) string {
	return newLine("M107").optIndex('P', fan).String()
}
