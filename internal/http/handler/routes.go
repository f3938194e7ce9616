package handler

import (
	"github.com/gofiber/fiber/v2"

	"hondaapi/internal/model"
	"hondaapi/internal/service"
)

// Services are the use cases served over HTTP. Nil entries are not routed.
type Services struct {
	Banners         service.Resource[model.Banner, service.BannerInput]
	Products        service.Resource[model.Product, service.ProductInput]
	Services        service.Resource[model.Service, service.ServiceInput]
	Vehicles        service.Resource[model.Vehicle, service.VehicleInput]
	Users           service.Resource[model.User, service.UserInput]
	RepairSchedules service.Editor[model.RepairSchedule, service.RepairScheduleInput]
	TestDrives      service.Editor[model.TestDriveSchedule, service.TestDriveInput]
	Billing         service.Lister[model.BillDetail]
	Reviews         service.ReviewLister
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
//
// Every resource lives under /api/{name} with GET /all, and where the
// resource allows it POST /add, PUT /update/:id and DELETE /delete/:id.
// Banner and product writes are multipart forms with the image under
// "image"; all other writes are JSON.
func RegisterRoutes(app *fiber.App, svcs Services, ping Pinger) {
	app.Get("/health", HealthCheck(ping))
	app.Get("/healthz", LivenessProbe())

	api := app.Group("/api")

	if svcs.Banners != nil {
		mountResource(api.Group("/banners"), svcs.Banners, bindBannerForm)
	}
	if svcs.Products != nil {
		mountResource(api.Group("/products"), svcs.Products, bindProductForm)
	}
	if svcs.Services != nil {
		mountResource(api.Group("/services"), svcs.Services, bindJSON[service.ServiceInput])
	}
	if svcs.Vehicles != nil {
		mountResource(api.Group("/vehicles"), svcs.Vehicles, bindJSON[service.VehicleInput])
	}
	if svcs.Users != nil {
		mountResource(api.Group("/users"), svcs.Users, bindJSON[service.UserInput])
	}
	if svcs.RepairSchedules != nil {
		mountEditor(api.Group("/repair-schedules"), svcs.RepairSchedules, bindJSON[service.RepairScheduleInput])
	}
	if svcs.TestDrives != nil {
		mountEditor(api.Group("/test-drives"), svcs.TestDrives, bindJSON[service.TestDriveInput])
	}
	if svcs.Billing != nil {
		api.Get("/billing/all", ListHandler(svcs.Billing))
	}
	if svcs.Reviews != nil {
		api.Get("/reviews/all", ListReviews(svcs.Reviews))
	}
}

func mountEditor[T model.Entity, In any](r fiber.Router, svc service.Editor[T, In], bind binder[In]) {
	r.Get("/all", ListHandler[T](svc))
	r.Put("/update/:id", UpdateHandler[In](svc, bind))
	r.Delete("/delete/:id", DeleteHandler(svc))
}

func mountResource[T model.Entity, In any](r fiber.Router, svc service.Resource[T, In], bind binder[In]) {
	mountEditor[T, In](r, svc, bind)
	r.Post("/add", CreateHandler[In](svc, bind))
}
