package queuetoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtRiskMedia/queuegate-go/internal/infrastructure/security"
)

func TestParseEmptyInput(t *testing.T) {
	assert.Nil(t, Parse(""))
}

func TestParseFullToken(t *testing.T) {
	raw := "ts_1000000000~cv_3~ce_true~e_e1~q_943c1f93-5ba8-4a93-8a13-d046dd16f917~rt_queue~h_deadbeef"

	params := Parse(raw)
	require.NotNil(t, params)

	assert.Equal(t, time.Unix(1000000000, 0).UTC(), params.TimeStamp)
	require.NotNil(t, params.CookieValidityMinutes)
	assert.Equal(t, 3, *params.CookieValidityMinutes)
	assert.True(t, params.ExtendableCookie)
	assert.Equal(t, "e1", params.EventID)
	assert.Equal(t, "943c1f93-5ba8-4a93-8a13-d046dd16f917", params.QueueID)
	assert.Equal(t, "queue", params.RedirectType)
	assert.Equal(t, "deadbeef", params.HashCode)
	assert.Equal(t, raw, params.Token)
	assert.Equal(t, "ts_1000000000~cv_3~ce_true~e_e1~q_943c1f93-5ba8-4a93-8a13-d046dd16f917~rt_queue",
		params.TokenWithoutHash)
}

func TestParseStrictness(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		check func(t *testing.T, p *Params)
	}{
		{
			name: "group without value is skipped",
			raw:  "e~q_qid~h_abc",
			check: func(t *testing.T, p *Params) {
				assert.Empty(t, p.EventID)
				assert.Equal(t, "qid", p.QueueID)
			},
		},
		{
			name: "unknown keys are ignored",
			raw:  "zz_1~e_e1",
			check: func(t *testing.T, p *Params) {
				assert.Equal(t, "e1", p.EventID)
			},
		},
		{
			name: "unparseable timestamp resolves to epoch",
			raw:  "ts_sometime~e_e1",
			check: func(t *testing.T, p *Params) {
				assert.Equal(t, time.Unix(0, 0).UTC(), p.TimeStamp)
			},
		},
		{
			name: "unparseable extendable defaults to false",
			raw:  "ce_maybe~e_e1",
			check: func(t *testing.T, p *Params) {
				assert.False(t, p.ExtendableCookie)
			},
		},
		{
			name: "unparseable validity is absent",
			raw:  "cv_ten~e_e1",
			check: func(t *testing.T, p *Params) {
				assert.Nil(t, p.CookieValidityMinutes)
			},
		},
		{
			name: "missing timestamp resolves to epoch",
			raw:  "e_e1",
			check: func(t *testing.T, p *Params) {
				assert.Equal(t, time.Unix(0, 0).UTC(), p.TimeStamp)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := Parse(tt.raw)
			require.NotNil(t, params)
			tt.check(t, params)
		})
	}
}

func TestGenerateParseRoundTrip(t *testing.T) {
	secretKey := "4e1deweb821-a82ew5-f5bee11f-d35d1-d29c"
	validity := 10
	generator := Generator{
		EventID:               "e1",
		QueueID:               "iopdb821-a82ew5-f5bee11f-d35d1-d29c",
		RedirectType:          "queue",
		ExtendableCookie:      true,
		CookieValidityMinutes: &validity,
		TimeStamp:             time.Now().UTC().Add(time.Hour),
	}

	params := Parse(generator.Generate(secretKey))
	require.NotNil(t, params)

	assert.Equal(t, "e1", params.EventID)
	assert.Equal(t, "iopdb821-a82ew5-f5bee11f-d35d1-d29c", params.QueueID)
	assert.Equal(t, "queue", params.RedirectType)
	assert.True(t, params.ExtendableCookie)
	require.NotNil(t, params.CookieValidityMinutes)
	assert.Equal(t, 10, *params.CookieValidityMinutes)
	// The signature recomputed over the recovered pre-hash payload matches
	// the carried hash, i.e. TokenWithoutHash is byte-for-byte the signed
	// substring.
	assert.Equal(t, params.HashCode, security.GenerateSHA256Hash(secretKey, params.TokenWithoutHash))
}

func TestGenerateKnownVector(t *testing.T) {
	token := Generator{
		EventID:          "e1",
		QueueID:          "queue1",
		RedirectType:     "queue",
		ExtendableCookie: true,
		TimeStamp:        time.Unix(1000000000, 0).UTC(),
	}.Generate("4e1deweb821-a82ew5-f5bee11f-d35d1-d29c")

	assert.Equal(t,
		"ts_1000000000~ce_true~e_e1~q_queue1~rt_queue~h_600f2ebf4aafc99f3963f608bc5f5d9f9831ffa1b025e52030b9e4f800e8ed09",
		token)
}
