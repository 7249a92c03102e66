package main

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Abraxas-365/asynckit/pkg/queuex"
)

// registerQueueRoutes mounts the queue admin API.
func registerQueueRoutes(app *fiber.App, container *Container) {
	h := &queueHandlers{container: container}

	queues := app.Group("/queues")
	queues.Get("/", h.list)
	queues.Get("/:name", h.stats)
	queues.Post("/:name/jobs", h.enqueue)
	queues.Post("/:name/pause", h.pause)
	queues.Post("/:name/resume", h.resume)
	queues.Post("/:name/clear", h.clear)

	app.Get("/memo", h.memo)
}

type queueHandlers struct {
	container *Container
}

func (h *queueHandlers) lookup(c *fiber.Ctx) (*JobQueue, error) {
	name := c.Params("name")
	q, ok := h.container.Lookup(name)
	if !ok {
		return nil, adminErrors.New(ErrQueueNotFound).WithDetail("queue", name)
	}
	return q, nil
}

func (h *queueHandlers) list(c *fiber.Ctx) error {
	names := h.container.Names()
	stats := make([]queuex.Stats, 0, len(names))
	for _, name := range names {
		q, _ := h.container.Lookup(name)
		stats = append(stats, q.Stats())
	}
	return c.JSON(fiber.Map{"queues": stats})
}

func (h *queueHandlers) stats(c *fiber.Ctx) error {
	q, err := h.lookup(c)
	if err != nil {
		return err
	}
	return c.JSON(q.Stats())
}

// enqueue creates the queue on first use and accepts a simulated job.
func (h *queueHandlers) enqueue(c *fiber.Ctx) error {
	var req jobRequest
	if err := c.BodyParser(&req); err != nil {
		return adminErrors.NewWithCause(ErrInvalidJob, err)
	}
	if req.SleepMS < 0 || req.TimeoutMS < 0 || req.Attempts < 0 {
		return adminErrors.NewWithMessage(ErrInvalidJob, "Durations and attempts must not be negative").
			WithDetail("queue", c.Params("name"))
	}

	q, err := h.container.Queue(c.Params("name"))
	if err != nil {
		return err
	}
	handle, err := q.Enqueue(h.container.task(req))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"queue":  q.Name(),
		"seq":    handle.Seq(),
		"id":     handle.ID(),
		"status": handle.Status(),
	})
}

func (h *queueHandlers) pause(c *fiber.Ctx) error {
	q, err := h.lookup(c)
	if err != nil {
		return err
	}
	q.Pause()
	return c.JSON(q.Stats())
}

func (h *queueHandlers) resume(c *fiber.Ctx) error {
	q, err := h.lookup(c)
	if err != nil {
		return err
	}
	q.Resume()
	return c.JSON(q.Stats())
}

func (h *queueHandlers) clear(c *fiber.Ctx) error {
	q, err := h.lookup(c)
	if err != nil {
		return err
	}
	n := q.Clear()
	return c.JSON(fiber.Map{"cleared": n, "stats": q.Stats()})
}

func (h *queueHandlers) memo(c *fiber.Ctx) error {
	return c.JSON(h.container.Results.Stats())
}
