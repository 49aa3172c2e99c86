//go:build gbxdebug

package cpu

import "fmt"

// fault reports a runtime anomaly (illegal opcode, invalid decode
// state). Debug builds panic so the bad ROM or emulator bug surfaces
// immediately instead of running on into undefined behavior.
func (c *CPU) fault(format string, args ...interface{}) uint8 {
	c.log.Errorf("cpu: "+format, args...)
	panic(fmt.Sprintf("cpu: "+format, args...))
}
