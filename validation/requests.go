package validation

import (
	"io"
	"strings"
)

type SignupInput struct {
	FirstName string
	LastName  string
	Phone     string
	Email     string
	Password  string
}

type signupRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Phone     string `json:"phone" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	// Role is accepted and discarded: every signup creates a member.
	Role string `json:"role"`
}

func ParseSignup(r io.Reader) (SignupInput, error) {
	var req signupRequest
	if err := decode(r, &req); err != nil {
		return SignupInput{}, err
	}
	return SignupInput{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Phone:     strings.TrimSpace(req.Phone),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Password:  req.Password,
	}, nil
}

type LoginInput struct {
	Email    string
	Password string
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func ParseLogin(r io.Reader) (LoginInput, error) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		return LoginInput{}, err
	}
	return LoginInput{
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: req.Password,
	}, nil
}

type CreatePropertyInput struct {
	Name        string
	Description string
	Image       *string
	Price       int
	Bedrooms    int
	Bathrooms   int
	Location    string
	IsActive    bool
	OwnerID     uint
}

// Pointers tell an absent field apart from a zero value.
type createPropertyRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Image       *string `json:"image"`
	Price       *int    `json:"price" validate:"required,min=0"`
	Bedrooms    *int    `json:"bedrooms" validate:"required,min=0"`
	Bathrooms   *int    `json:"bathrooms" validate:"required,min=0"`
	Location    string  `json:"location" validate:"required"`
	IsActive    *bool   `json:"is_active" validate:"required"`
	UserID      *uint   `json:"user_id" validate:"required,gt=0"`
}

func ParseCreateProperty(r io.Reader) (CreatePropertyInput, error) {
	var req createPropertyRequest
	if err := decode(r, &req); err != nil {
		return CreatePropertyInput{}, err
	}

	in := CreatePropertyInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		Bedrooms:    *req.Bedrooms,
		Bathrooms:   *req.Bathrooms,
		Location:    req.Location,
		IsActive:    *req.IsActive,
		OwnerID:     *req.UserID,
	}
	if req.Image != nil && strings.TrimSpace(*req.Image) != "" {
		img := *req.Image
		in.Image = &img
	}
	return in, nil
}
