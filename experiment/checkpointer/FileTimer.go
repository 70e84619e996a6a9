package checkpointer

import (
	"fmt"
	"time"
)

// timestampLayout sorts lexically in checkpoint order
const timestampLayout = "20060102T150405.000000000Z"

// FileTimer returns a function which names each checkpoint of filename
// after the UTC time it is written at, for example
// "out/checkpoints/dqn-20260102T150405.000000000Z.gob".
func FileTimer(filename, extension string) func() string {
	return fileTimer(filename, extension, time.Now)
}

func fileTimer(filename, extension string,
	now func() time.Time) func() string {
	return func() string {
		return fmt.Sprintf("%v-%v%v", filename,
			now().UTC().Format(timestampLayout), extension)
	}
}
