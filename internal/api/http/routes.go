package httpapi

import (
	"bytes"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/global-analytics-dashboard/internal/analytics"
	"github.com/i474232898/global-analytics-dashboard/internal/charts"
	"github.com/i474232898/global-analytics-dashboard/internal/dashboard"
)

var validate = validator.New()

// Player toggles auto-advance of the map slider.
type Player interface {
	Toggle() (bool, error)
	Playing() bool
}

// Refresher rebuilds the dashboard snapshots.
type Refresher interface {
	Refresh()
}

// Deps are the collaborators the routes call into.
type Deps struct {
	Service    *analytics.Service
	Controller *dashboard.Controller
	Player     Player
	Refresher  Refresher
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	api := app.Group("/api")
	api.Post("/token/registration/", d.registerToken)
	api.Post("/token/authorization/", d.authorizeToken)
	api.Post("/installation/statistics/", d.receiveStatistics)

	v1 := api.Group("/v1")

	v1.Get("/map", d.mapPage)
	v1.Get("/map/current", d.currentView)
	v1.Post("/map/select", d.selectSnapshot)
	v1.Post("/map/play", d.togglePlay)
	v1.Get("/map/snapshots/:key/dataset", d.snapshotDataset)

	v1.Get("/charts/activity", d.activityChart)
	v1.Get("/charts/activity.png", d.activityChartPNG)
	v1.Get("/charts/monthly", d.monthlyChart)
}

func (d Deps) registerToken(c *fiber.Ctx) error {
	token, _ := d.Service.RegisterInstallation(c.IP())
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"access_token": token})
}

// accessTokenForm is the body of the authorization endpoint.
type accessTokenForm struct {
	AccessToken string `form:"access_token" validate:"required,len=32,hexadecimal"`
}

func (d Deps) authorizeToken(c *fiber.Ctx) error {
	var form accessTokenForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid access token")
	}
	if err := validate.Struct(form); err != nil || !d.Service.Authorize(form.AccessToken) {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid access token")
	}
	return c.SendStatus(fiber.StatusOK)
}

func (d Deps) receiveStatistics(c *fiber.Ctx) error {
	var in analytics.ReportInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	err := d.Service.ReceiveStatistics(c.UserContext(), in)
	switch {
	case errors.Is(err, analytics.ErrUnauthorized):
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, analytics.ErrInvalidReport):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case err != nil:
		return fiber.NewError(fiber.StatusInternalServerError, "failed to store statistics")
	}

	if d.Refresher != nil {
		d.Refresher.Refresh()
	}
	return c.SendStatus(fiber.StatusCreated)
}

func (d Deps) mapPage(c *fiber.Ctx) error {
	first, last := d.Service.UpdateScope()
	resp := fiber.Map{
		"keys":                          d.Controller.Keys(),
		"snapshots":                     d.Controller.Snapshots(),
		"playing":                       d.Player.Playing(),
		"first_datetime_of_update_data": first,
		"last_datetime_of_update_data":  last,
	}
	if view, ok := d.Controller.CurrentView(); ok {
		resp["current"] = view
	}
	return c.JSON(resp)
}

func (d Deps) currentView(c *fiber.Ctx) error {
	view, ok := d.Controller.CurrentView()
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "no statistics have been collected yet")
	}
	return c.JSON(view)
}

// selectRequest moves the slider either by key or by position.
type selectRequest struct {
	Key      string `json:"key" validate:"required_without=Position"`
	Position *int   `json:"position" validate:"omitempty,gte=0"`
}

func (d Deps) selectSnapshot(c *fiber.Ctx) error {
	var req selectRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	var err error
	if req.Key != "" {
		err = d.Controller.SelectSnapshot(req.Key)
	} else {
		err = d.Controller.SelectPosition(*req.Position)
	}
	if errors.Is(err, dashboard.ErrUnknownSnapshot) {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to select snapshot")
	}

	view, _ := d.Controller.CurrentView()
	return c.JSON(view)
}

func (d Deps) togglePlay(c *fiber.Ctx) error {
	playing, err := d.Player.Toggle()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to toggle auto-advance")
	}
	return c.JSON(fiber.Map{"playing": playing})
}

func (d Deps) snapshotDataset(c *fiber.Ctx) error {
	view, err := d.Controller.SnapshotView(c.Params("key"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return c.JSON(view)
}

func (d Deps) activityChart(c *fiber.Ctx) error {
	plot, err := charts.BuildPlot(charts.ActivityConfig(), d.Service.Timeline())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	first, last := d.Service.UpdateScope()
	return c.JSON(fiber.Map{
		"plot":                          plot,
		"counts":                        d.Service.OverallCounts(),
		"first_datetime_of_update_data": first,
		"last_datetime_of_update_data":  last,
	})
}

func (d Deps) monthlyChart(c *fiber.Ctx) error {
	plot, err := charts.BuildPlot(charts.MonthlyConfig(), d.Service.Timeline())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"plot": plot})
}

func (d Deps) activityChartPNG(c *fiber.Ctx) error {
	var buf bytes.Buffer
	err := charts.Render(charts.ActivityConfig(), d.Service.Timeline(), &buf)
	if errors.Is(err, charts.ErrNotEnoughPoints) {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to render chart")
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(buf.Bytes())
}
