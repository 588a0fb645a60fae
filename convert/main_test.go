package convert

import (
	"os"
	"testing"

	"cssmangle/utils/hash"
)

func TestMain(m *testing.M) {
	hash.Init()
	os.Exit(m.Run())
}
