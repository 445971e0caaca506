package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFanoutDeliversToAllAndJoinsErrors(t *testing.T) {
	boom := errors.New("boom")
	var delivered []string

	record := func(name string, err error) Publisher {
		return PublisherFunc(func(_ context.Context, topic string, ev Event) error {
			delivered = append(delivered, name+":"+topic+":"+ev.Type)
			return err
		})
	}

	f := Fanout{record("a", nil), nil, record("b", boom), record("c", nil)}
	err := f.Publish(context.Background(), "payment-updates", Event{Type: TypePaymentProgress})

	require.ErrorIs(t, err, boom)
	require.Equal(t, []string{
		"a:payment-updates:payment.progress",
		"b:payment-updates:payment.progress",
		"c:payment-updates:payment.progress",
	}, delivered)
}

func TestFanoutEmpty(t *testing.T) {
	require.NoError(t, Fanout{}.Publish(context.Background(), "t", Event{}))
	require.NoError(t, Nop{}.Publish(context.Background(), "t", Event{}))
}
