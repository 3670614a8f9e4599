// Package guard forces test mode on before any other package init runs,
// keeping test binaries from touching live infrastructure.
package guard

import (
	"os"
	"sync"

	"github.com/uniportal/uniportal/internal/app"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("UNIPORTAL_TEST_MODE") == "" {
			_ = os.Setenv("UNIPORTAL_TEST_MODE", "1")
		}
		app.RefreshTestMode()
	})
}
