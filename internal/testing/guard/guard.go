package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("STOCKBRIDGE_TEST_MODE") == "" {
			_ = os.Setenv("STOCKBRIDGE_TEST_MODE", "1")
		}
	})
}
