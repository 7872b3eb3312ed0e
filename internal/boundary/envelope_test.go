package boundary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEnvelopeSuccess(t *testing.T) {
	env, err := decodeEnvelope([]byte(`{"status":"success","events":[{"id":1}]}`))
	require.NoError(t, err)
	require.Len(t, env.Records(), 1)
	assert.Equal(t, float64(1), env.Records()[0]["id"])
}

func TestDecodeEnvelopeLegacyNoStatus(t *testing.T) {
	// get_events omits the status field entirely; a parseable body is
	// still a success.
	env, err := decodeEnvelope([]byte(`{"events":[{"id":2},{"id":3}]}`))
	require.NoError(t, err)
	assert.Len(t, env.Records(), 2)
}

func TestDecodeEnvelopeDomainError(t *testing.T) {
	_, err := decodeEnvelope([]byte(`{"status":"error","message":"Email already registered"}`))
	var domainErr *DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "Email already registered", domainErr.Message)
}

func TestDecodeEnvelopeCorruptBody(t *testing.T) {
	bodies := [][]byte{
		[]byte(`<br /><b>Warning</b>: mysqli_connect(): in /var/www/html on line 3{"status":"success"}`),
		[]byte(`not json at all`),
		[]byte(``),
	}
	for _, body := range bodies {
		_, err := decodeEnvelope(body)
		assert.ErrorIs(t, err, ErrTransportCorruption, "body %q", body)
	}
}

func TestEnvelopeRecordsPrefersFirstPopulatedKey(t *testing.T) {
	env := &Envelope{Tickets: []map[string]any{{"id": float64(1)}}}
	assert.Len(t, env.Records(), 1)

	env = &Envelope{}
	assert.Nil(t, env.Records())
}
