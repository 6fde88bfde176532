package recognition_type

import "time"

type Category string

const (
	CategoryTeamwork        Category = "TEAMWORK"
	CategoryInnovation      Category = "INNOVATION"
	CategoryExcellence      Category = "EXCELLENCE"
	CategoryCustomerService Category = "CUSTOMER_SERVICE"
)

// RecognitionType is an administrator-configured template for recognitions:
// its point value is what a recognition of this type awards the recipient.
type RecognitionType struct {
	Id         int
	Uid        string
	Name       string
	Category   Category
	PointValue int
	Active     bool
	CreatedAt  time.Time
}
