package server

import (
	"promptfeed/internal/featureflags"

	"github.com/gofiber/fiber/v2"
)

// GetFeatureFlags reports the configured flag values and how each evaluates
// for the calling client address.
// @Summary List feature flags
// @Tags system
// @Produce json
// @Success 200 {object} object{success=bool,raw=map[string]string,evaluated=map[string]bool}
// @Router /feature-flags [get]
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	flags := s.featureFlags
	if flags == nil {
		flags = featureflags.NewManager("")
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"raw":       flags.Raw(),
		"evaluated": flags.Snapshot(c.IP()),
	})
}
