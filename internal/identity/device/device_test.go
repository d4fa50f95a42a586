package device

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

type DeviceLabelSuite struct {
	suite.Suite
}

func TestDeviceLabelSuite(t *testing.T) {
	suite.Run(t, new(DeviceLabelSuite))
}

func (s *DeviceLabelSuite) TestLabel() {
	s.Run("empty user agent returns unknown device", func() {
		s.Equal("Unknown Device", Label(""))
		s.Equal("Unknown Device", Label("   "))
	})

	s.Run("chrome on desktop includes browser and OS", func() {
		result := Label("Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
		s.Contains(result, "Chrome")
		s.Contains(result, " on ")
		s.NotContains(result, "  ")
	})

	s.Run("safari on iphone names the platform", func() {
		result := Label("Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1")
		s.Contains(result, "iPhone")
	})

	s.Run("firefox on linux includes browser", func() {
		result := Label("Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0")
		s.Contains(result, "Firefox")
	})

	s.Run("result has no surrounding whitespace", func() {
		result := Label("Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")
		s.Equal(strings.TrimSpace(result), result)
		s.NotEmpty(result)
	})
}
