package api

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"rentacar.com/internal/domain"
	"rentacar.com/internal/model"
	"rentacar.com/internal/validation"
)

// CarHandler serves the car listing CRUD.
type CarHandler struct {
	cars domain.CarRepository
}

func NewCarHandler(cars domain.CarRepository) *CarHandler {
	return &CarHandler{cars: cars}
}

// List returns the car listings, paginated.
// GET /api/cars
func (h *CarHandler) List(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("pageSize", "50"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 500 {
		pageSize = 50
	}

	cars, total, err := h.cars.List(c.Context(), page, pageSize)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"Error": "Database error"})
	}

	return SendPaginatedResponse(c, cars, page, pageSize, total)
}

// Get returns a single car.
// GET /api/cars/:id
func (h *CarHandler) Get(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return notFound(c)
	}
	car, err := h.cars.FindByID(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"Error": "Car not found"})
	}
	return c.JSON(fiber.Map{"Status": true, "Data": car})
}

// Create validates and persists a new car listing.
// POST /api/cars
func (h *CarHandler) Create(c *fiber.Ctx) error {
	var car model.Car
	if err := c.BodyParser(&car); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"Error": "Invalid body"})
	}
	car.ID = 0

	if errs := validation.ValidateCar(&car); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"Errors": errs})
	}

	if err := h.cars.Insert(c.Context(), &car); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"Error": "Create failed"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"Status": true, "Data": car})
}

// Update validates and saves changes to an existing car.
// PUT /api/cars/:id
func (h *CarHandler) Update(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return notFound(c)
	}

	car, err := h.cars.FindByID(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"Error": "Car not found"})
	}

	if err := c.BodyParser(car); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"Error": "Invalid body"})
	}
	car.ID = id

	if errs := validation.ValidateCar(car); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"Errors": errs})
	}

	if err := h.cars.Update(c.Context(), car); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"Error": "Car not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"Error": "Update failed"})
	}

	return c.JSON(fiber.Map{"Status": true, "Data": car})
}

// Delete removes a car listing.
// DELETE /api/cars/:id
func (h *CarHandler) Delete(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return notFound(c)
	}

	if err := h.cars.Delete(c.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"Error": "Car not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"Error": "Delete failed"})
	}

	return c.JSON(fiber.Map{"Status": true})
}
