package documents

import (
	"github.com/gofiber/fiber/v3"
)

func RegisterRoutes(r fiber.Router) {
	grp := r.Group("/documents")

	grp.Get("/:docID/download", HandleDownload)
	grp.Delete("/:docID", HandleDelete)
}
