//go:build !unix

package lifecycle

import "os"

func transitionSignals() (os.Signal, os.Signal, bool) {
	return nil, nil, false
}
