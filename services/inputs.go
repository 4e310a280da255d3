package services

import "github.com/shopspring/decimal"

// RegistrationInput is a customer self-registration
type RegistrationInput struct {
	Name          string `json:"name" validate:"required"`
	StudentID     string `json:"student_id" validate:"required"`
	Email         string `json:"email" validate:"required,shop_email"`
	ContactNumber string `json:"contact_number" validate:"required,phone"`
	Course        string `json:"course" validate:"required"`
	Section       string `json:"section" validate:"required"`
	Username      string `json:"username" validate:"required,excludesall=0x2C"`
	Password      string `json:"password" validate:"required,min=6,excludesall=0x2C"`
}

// StaffInput is an admin-created staff account
type StaffInput struct {
	Name          string `json:"name" validate:"required"`
	Email         string `json:"email" validate:"required,shop_email"`
	ContactNumber string `json:"contact_number" validate:"required,phone"`
	Username      string `json:"username" validate:"required,excludesall=0x2C"`
	Password      string `json:"password" validate:"required,min=6,excludesall=0x2C"`
}

// ProfileInput edits the acting user's profile. Empty fields are left unchanged.
type ProfileInput struct {
	Name          string `json:"name"`
	Email         string `json:"email" validate:"omitempty,shop_email"`
	ContactNumber string `json:"contact_number" validate:"omitempty,phone"`
	StudentID     string `json:"student_id"`
	Course        string `json:"course"`
	Section       string `json:"section"`
	Username      string `json:"username" validate:"excludesall=0x2C"`
}

// PasswordChangeInput replaces the acting user's password
type PasswordChangeInput struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6,excludesall=0x2C"`
}

// QuoteRequest describes a print job to price
type QuoteRequest struct {
	PaperSize       string `json:"paper_size" validate:"omitempty,oneof=a4 short long"`
	Quality         string `json:"quality" validate:"omitempty,oneof=thesis standard premium ultra_premium"`
	IsColorPrinting bool   `json:"is_color_printing"`
	PageCount       int    `json:"page_count" validate:"min=0"`
	Copies          int    `json:"copies" validate:"min=0"`
}

// Quote is a priced print job
type Quote struct {
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

// SubmitOrderInput is an order submission from a customer or a guest.
// Guests must identify themselves by name, email and contact number and
// attach both payment receipts.
type SubmitOrderInput struct {
	CustomerName     string   `json:"customer_name"`
	Email            string   `json:"email"`
	ContactNumber    string   `json:"contact_number"`
	PaperSize        string   `json:"paper_size" validate:"omitempty,oneof=a4 short long"`
	Quality          string   `json:"quality" validate:"omitempty,oneof=thesis standard premium ultra_premium"`
	IsColorPrinting  bool     `json:"is_color_printing"`
	PageCount        int      `json:"page_count" validate:"gt=0"`
	Copies           int      `json:"copies" validate:"gt=0"`
	Documents        []string `json:"documents" validate:"required,min=1,dive,required"`
	ReceiptPath      string   `json:"receipt_path"`
	GcashReceiptPath string   `json:"gcash_receipt_path"`
}

// Quote returns the pricing part of the submission
func (in SubmitOrderInput) Quote() QuoteRequest {
	return QuoteRequest{
		PaperSize:       in.PaperSize,
		Quality:         in.Quality,
		IsColorPrinting: in.IsColorPrinting,
		PageCount:       in.PageCount,
		Copies:          in.Copies,
	}
}

// OrderFilter narrows an order listing
type OrderFilter struct {
	Status     string `form:"status"`
	CustomerID int    `form:"customer_id"`
	StaffID    int    `form:"staff_id"`
}
