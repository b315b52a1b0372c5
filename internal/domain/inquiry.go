package domain

import "time"

// Inquiry is a customer-inquiry board entry. Answer stays empty until an
// operator responds.
type Inquiry struct {
	InquiryID   string    `json:"id" dynamodbav:"inquiry_id"`
	UserName    string    `json:"user_name" dynamodbav:"user_name"`
	CompanyName string    `json:"company_name" dynamodbav:"company_name"`
	Email       string    `json:"email" dynamodbav:"email"`
	Content     string    `json:"content" dynamodbav:"content"`
	Answer      string    `json:"answer,omitempty" dynamodbav:"answer"`
	Public      bool      `json:"public" dynamodbav:"public"`
	CreatedAt   time.Time `json:"created_at" dynamodbav:"created_at"`
}

type CreateInquiryRequest struct {
	UserName    string `json:"user_name" validate:"required,max=50"`
	CompanyName string `json:"company_name" validate:"required,max=100"`
	Email       string `json:"email" validate:"required,email"`
	Content     string `json:"content" validate:"required,max=4000"`
	Public      bool   `json:"public"`
}

// InquiryFilter narrows inquiry listing. Zero values mean "no filter".
type InquiryFilter struct {
	UserName    string
	CompanyName string
	Email       string
	StartDate   *time.Time
	EndDate     *time.Time
}
