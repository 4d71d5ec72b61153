package student

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Student is the stored record. Email is kept lowercased and matric_no
// uppercased; the unique indexes are defined on those normalized forms.
type Student struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Firstname string             `bson:"firstname" json:"firstname"`
	Lastname  string             `bson:"lastname" json:"lastname"`
	Gender    string             `bson:"gender" json:"gender"`
	Email     string             `bson:"email" json:"email"`
	MatricNo  string             `bson:"matric_no" json:"matric_no"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Input is the raw create/update payload. Update takes the full payload,
// same rules as create.
type Input struct {
	Firstname string `json:"firstname" validate:"required,min=3,max=20"`
	Lastname  string `json:"lastname" validate:"required,min=3,max=20"`
	Gender    string `json:"gender" validate:"required,gender"`
	Email     string `json:"email" validate:"required,email"`
	MatricNo  string `json:"matric_no" validate:"required,matricno"`
}
