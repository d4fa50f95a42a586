package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPublisherDisabledWithoutBrokers(t *testing.T) {
	p, err := NewPublisher(nil, nil)
	require.NoError(t, err)
	assert.Nil(t, p)
	p.Close()
}

func TestNewPublisherDisabledWithBlankBrokers(t *testing.T) {
	p, err := NewPublisher([]string{"", "  "}, nil)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestSeedBrokers(t *testing.T) {
	got := seedBrokers([]string{" a:9092", "b:9092 ", "", "a:9092"})
	assert.Equal(t, []string{"a:9092", "b:9092"}, got)
}
