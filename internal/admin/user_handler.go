package admin

import (
	"strings"

	"odicam-backend/internal/auth"
	"odicam-backend/internal/database"
	"odicam-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserRequest struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Email    string            `json:"email"`
	Password string            `json:"password"`
	Role     models.UserRole   `json:"role"`
	Status   models.UserStatus `json:"status"`
	Version  *int              `json:"version"`
}

type UserResponse struct {
	ID      string            `json:"id"`
	Name    string            `json:"name"`
	Email   string            `json:"email"`
	Role    models.UserRole   `json:"role"`
	Status  models.UserStatus `json:"status"`
	Version int               `json:"version"`
}

func toResponse(u models.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, Status: u.Status, Version: u.Version}
}

func validRole(r models.UserRole) bool {
	return r == models.RoleManager || r == models.RoleStaff
}

// GET /api/admin
func ListUsersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var users []models.User
		if err := database.DB.Order("name").Find(&users).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Les utilisateurs n'ont pas pu être chargés")
		}

		out := make([]UserResponse, 0, len(users))
		for _, u := range users {
			out = append(out, toResponse(u))
		}
		return c.JSON(out)
	}
}

// POST /api/admin/user
func CreateUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body UserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		if body.Name == "" || body.Email == "" || body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nom, email et mot de passe sont obligatoires")
		}
		if !validRole(body.Role) {
			return fiber.NewError(fiber.StatusBadRequest, "Rôle invalide (manager|staff)")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Le mot de passe n'a pas pu être haché")
		}

		user := models.User{
			ID:           body.ID,
			Name:         body.Name,
			Email:        body.Email,
			PasswordHash: string(hash),
			Role:         body.Role,
			Status:       models.UserStatusActive,
			Version:      1,
		}
		if user.ID == "" {
			user.ID = uuid.NewString()
		}

		if err := database.DB.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "L'utilisateur n'a pas pu être créé")
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(user))
	}
}

// PUT /api/admin/user/:id
func UpdateUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var body UserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		var existing models.User
		if err := database.DB.First(&existing, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Utilisateur introuvable")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		if body.Name == "" || body.Email == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nom et email sont obligatoires")
		}
		if !validRole(body.Role) {
			return fiber.NewError(fiber.StatusBadRequest, "Rôle invalide (manager|staff)")
		}

		updates := map[string]interface{}{
			"name":    body.Name,
			"email":   body.Email,
			"role":    body.Role,
			"version": gorm.Expr("version + 1"),
		}
		if body.Status != "" {
			updates["status"] = body.Status
		}
		if body.Password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Le mot de passe n'a pas pu être haché")
			}
			updates["password_hash"] = string(hash)
		}

		tx := database.DB.Model(&models.User{}).Where("id = ?", id)
		if body.Version != nil {
			tx = tx.Where("version = ?", *body.Version)
		}
		res := tx.Updates(updates)
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "L'utilisateur n'a pas pu être mis à jour")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusConflict, "L'utilisateur a été modifié entre-temps, rechargez-le")
		}

		database.DB.First(&existing, "id = ?", id)
		return c.JSON(toResponse(existing))
	}
}

// DELETE /api/admin/user/:id
func DeleteUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		currentID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}
		if currentID == id {
			return fiber.NewError(fiber.StatusBadRequest, "Vous ne pouvez pas supprimer votre propre compte")
		}

		res := database.DB.Delete(&models.User{}, "id = ?", id)
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "L'utilisateur n'a pas pu être supprimé")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Utilisateur introuvable")
		}

		return c.JSON(fiber.Map{"deleted": id})
	}
}

// POST /api/admin/user/:id/ban
func BanUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		currentID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}
		if currentID == id {
			return fiber.NewError(fiber.StatusBadRequest, "Vous ne pouvez pas suspendre votre propre compte")
		}

		var user models.User
		if err := database.DB.First(&user, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Utilisateur introuvable")
		}

		res := database.DB.Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
			"status":  models.UserStatusBanned,
			"version": gorm.Expr("version + 1"),
		})
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "L'utilisateur n'a pas pu être suspendu")
		}

		database.DB.First(&user, "id = ?", id)
		return c.JSON(toResponse(user))
	}
}
