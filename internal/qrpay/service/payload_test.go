package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePayload(t *testing.T) {
	t.Parallel()

	t.Run("round trips", func(t *testing.T) {
		want := Payload{LoanID: "L1", Amount: 5000.25, UserID: "U1", Timestamp: "2025-03-14T09:26:53.123456789Z"}
		raw, err := marshalPayload(want)
		require.NoError(t, err)
		require.Equal(t, `{"loanId":"L1","amount":5000.25,"userId":"U1","timestamp":"2025-03-14T09:26:53.123456789Z"}`, raw)

		got, err := parsePayload(raw)
		require.NoError(t, err)
		require.Equal(t, want, got)
	})

	rejects := map[string]string{
		"unknown field":    `{"loanId":"L1","amount":1,"userId":"U1","timestamp":"2025-03-14T09:26:53Z","admin":true}`,
		"trailing data":    `{"loanId":"L1","amount":1,"userId":"U1","timestamp":"2025-03-14T09:26:53Z"} {}`,
		"amount as string": `{"loanId":"L1","amount":"1","userId":"U1","timestamp":"2025-03-14T09:26:53Z"}`,
		"zero amount":      `{"loanId":"L1","amount":0,"userId":"U1","timestamp":"2025-03-14T09:26:53Z"}`,
		"missing loan":     `{"amount":1,"userId":"U1","timestamp":"2025-03-14T09:26:53Z"}`,
		"missing user":     `{"loanId":"L1","amount":1,"timestamp":"2025-03-14T09:26:53Z"}`,
		"bad timestamp":    `{"loanId":"L1","amount":1,"userId":"U1","timestamp":"yesterday"}`,
		"array not object": `[1,2,3]`,
		"empty":            ``,
	}
	for name, raw := range rejects {
		t.Run(name, func(t *testing.T) {
			_, err := parsePayload(raw)
			require.Error(t, err)
		})
	}
}
