package mockserver

import (
	"strings"

	"github.com/gofiber/cors"
	"github.com/gofiber/fiber"

	"github.com/zerbitx/gnockapi/config"
)

// corsHandler answers preflight requests and marks every response with the
// configured CORS headers. origin may list several origins, comma separated.
func corsHandler(opts config.CORS) fiber.Handler {
	var origins []string
	for _, origin := range strings.Split(opts.Origin, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}

	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowCredentials: opts.Credentials,
	})
}
