package build

import "fmt"

// FileState is the build state of one file.
type FileState int

const (
	StateUnbuilt FileState = iota
	StateBuilding
	StateBuilt
	StateFailed
)

var stateNames = [...]string{"Unbuilt", "Building", "Built", "Failed"}

func (s FileState) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("FileState(%d)", int(s))
	}
	return stateNames[s]
}

// MarshalText encodes the state by name.
func (s FileState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText decodes a state name.
func (s *FileState) UnmarshalText(b []byte) error {
	for i, name := range stateNames {
		if name == string(b) {
			*s = FileState(i)
			return nil
		}
	}
	return fmt.Errorf("unknown file state %q", b)
}

// Status is the outcome of a docset build.
type Status string

const (
	StatusSuccess  Status = "success"
	StatusFailed   Status = "failed"
	StatusCanceled Status = "canceled"
)

// IsSuccess reports whether every file built without error diagnostics.
func (s Status) IsSuccess() bool { return s == StatusSuccess }
