package production

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// A batch date read back from the database can carry a different location
// than the incoming request. The same instant must still count as the same
// day, otherwise an unchanged update would regenerate the batch name.
func TestSameDateIgnoresLocation(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+30*60)

	noon := time.Date(2026, 4, 12, 12, 0, 0, 0, time.UTC)
	assert.True(t, sameDate(noon, noon.In(ist)))
	assert.True(t, sameDate(noon.In(ist), noon))

	// Late evening UTC is already the next calendar day in IST.
	late := time.Date(2026, 4, 12, 22, 0, 0, 0, time.UTC)
	assert.True(t, sameDate(late, late.In(ist)))

	assert.False(t, sameDate(noon, noon.Add(24*time.Hour)))
	assert.True(t, sameDate(noon, noon.Add(11*time.Hour+59*time.Minute)))
}
