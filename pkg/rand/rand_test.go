package rand

import (
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSysID(t *testing.T) {
	id := SysID()
	assert.Len(t, id, 32)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{32}$`), id)
}

func TestNumber(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
	}{
		{name: "incident prefix", prefix: "INC"},
		{name: "change prefix", prefix: "CHG"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			n := Number(test.prefix)
			assert.True(t, strings.HasPrefix(n, test.prefix))
			assert.Len(t, n, len(test.prefix)+7)
		})
	}
}

func TestSysIDConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	ids := make([]string, 16)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = SysID()
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Len(t, id, 32)
	}
}
