package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"hondaapi/internal/media"
	"hondaapi/internal/model"
	"hondaapi/internal/service"
)

// Pinger reports whether the backing stores are reachable.
type Pinger func(ctx context.Context) error

// binder reads a write request into In. release frees whatever the input
// keeps open, such as an uploaded file, and is always safe to call.
type binder[In any] func(c *fiber.Ctx) (in In, release func(), err error)

type creator[In any] interface {
	Create(ctx context.Context, in In) (string, error)
}

func noRelease() {}

// HealthCheck reports 200 when ping succeeds within two seconds and 503 otherwise.
func HealthCheck(ping Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
			}
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe always answers 200.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// ListHandler serves GET .../all?search=.
func ListHandler[T model.Entity](svc service.Lister[T]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.List(c.UserContext(), c.Query("search"))
		if err != nil {
			return writeServiceError(c, err)
		}
		if items == nil {
			items = []T{}
		}
		return c.JSON(items)
	}
}

// ListReviews serves GET /api/reviews/all?staffName=&search=.
func ListReviews(svc service.ReviewLister) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.List(c.UserContext(), service.ReviewQuery{
			StaffName: c.Query("staffName"),
			Search:    c.Query("search"),
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		if items == nil {
			items = []model.Review{}
		}
		return c.JSON(items)
	}
}

// CreateHandler serves POST .../add and answers 201 with the new id.
func CreateHandler[In any](svc creator[In], bind binder[In]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		in, release, err := bind(c)
		defer release()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		id, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
	}
}

// UpdateHandler serves PUT .../update/:id.
func UpdateHandler[In any](svc service.Updater[In], bind binder[In]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		in, release, err := bind(c)
		defer release()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		id := c.Params("id")
		if err := svc.Update(c.UserContext(), id, in); err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"id": id})
	}
}

// DeleteHandler serves DELETE .../delete/:id and answers 204.
func DeleteHandler(svc service.Deleter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), c.Params("id")); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func bindJSON[In any](c *fiber.Ctx) (In, func(), error) {
	var in In
	if err := c.BodyParser(&in); err != nil {
		return in, noRelease, err
	}
	return in, noRelease, nil
}

func bindBannerForm(c *fiber.Ctx) (service.BannerInput, func(), error) {
	var in service.BannerInput
	if err := c.BodyParser(&in); err != nil {
		return in, noRelease, err
	}
	asset, release, err := formAsset(c, "image")
	in.Image = asset
	return in, release, err
}

func bindProductForm(c *fiber.Ctx) (service.ProductInput, func(), error) {
	var in service.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return in, noRelease, err
	}
	asset, release, err := formAsset(c, "image")
	in.Image = asset
	return in, release, err
}

// formAsset opens the file sent under field. A request without that file
// yields a nil asset.
func formAsset(c *fiber.Ctx, field string) (*media.Asset, func(), error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, noRelease, err
	}
	files := form.File[field]
	if len(files) == 0 {
		return nil, noRelease, nil
	}
	fh := files[0]

	f, err := fh.Open()
	if err != nil {
		return nil, noRelease, err
	}

	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/octet-stream"
	}

	return &media.Asset{
		Filename:    fh.Filename,
		ContentType: ct,
		Size:        fh.Size,
		Body:        f,
	}, func() { f.Close() }, nil
}
