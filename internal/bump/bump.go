// Package bump interfaces the robot's six bump switches. The switches are
// negative logic (closed pulls the line low against a pull-up), and presses
// are delivered asynchronously via falling-edge events in addition to the
// polled Read. The real implementation uses the Linux GPIO character device.
package bump

// NumSwitches is the number of bump switches on the robot, indexed 0
// (rightmost) through 5 (leftmost).
const NumSwitches = 6

// Monitor reads the bump switch bank.
type Monitor interface {
	// Read returns the positive-logic switch states: bit i set means
	// switch i is currently pressed.
	Read() (byte, error)

	// Close releases GPIO resources.
	Close() error
}

// PressFunc is called once per falling edge (switch press). It runs on the
// GPIO event goroutine, concurrently with the polling loop; implementations
// must be quick and must not call back into the Monitor.
type PressFunc func(sw int)

// DefaultLines holds the default BCM line offsets for switches 0-5.
var DefaultLines = []int{4, 17, 27, 22, 10, 9}
