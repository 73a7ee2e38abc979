package handlers

import "github.com/gofiber/fiber/v2"

// serviceablePincodes maps delivery pincodes to the areas they cover.
var serviceablePincodes = map[string][]string{
	"221412": {"Kolkata", "Howrah", "Bardhaman"},
	"412412": {"Pune", "Mumbai"},
	"124214": {"Delhi", "Noida", "Gurgaon"},
	"141412": {"Jaipur", "Udaipur"},
	"214124": {"Chennai", "Coimbatore"},
}

// PincodeHandler answers delivery-serviceability lookups.
type PincodeHandler struct{}

// NewPincodeHandler creates a new PincodeHandler.
func NewPincodeHandler() *PincodeHandler {
	return &PincodeHandler{}
}

// RegisterRoutes registers the pincode route.
func (h *PincodeHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/pincode", h.HandleGetPincodes)
}

// HandleGetPincodes returns the serviceable pincodes and their areas.
func (h *PincodeHandler) HandleGetPincodes(c *fiber.Ctx) error {
	pincodes := make([]string, 0, len(serviceablePincodes))
	locations := make([]string, 0)
	for code, areas := range serviceablePincodes {
		pincodes = append(pincodes, code)
		locations = append(locations, areas...)
	}
	return c.JSON(fiber.Map{
		"pincode":  pincodes,
		"location": locations,
	})
}
