package factcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupSupportedClaim(t *testing.T) {
	verdict, known := lookup("Bitcoin has a fixed supply cap of 21 million")
	assert.True(t, known)
	assert.Equal(t, VerdictSupported, verdict)
}

func TestLookupDisputedClaim(t *testing.T) {
	verdict, known := lookup("All cryptocurrencies use proof of work")
	assert.True(t, known)
	assert.Equal(t, VerdictDisputed, verdict)
}

func TestLookupUnknownClaimIsUnverifiable(t *testing.T) {
	verdict, known := lookup("the moon is made of cheese")
	assert.False(t, known)
	assert.Equal(t, VerdictUnverifiable, verdict)
}
