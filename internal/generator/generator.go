// Package generator creates random but valid humans and contacts for load tests and integration
// tests.
package generator

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"gitlab.com/nmadb/contacts/internal/model"
	api "gitlab.com/nmadb/contacts/pkg/model"
)

var (
	oldestBirthDate   = time.Date(1930, time.January, 1, 0, 0, 0, 0, time.UTC)
	youngestBirthDate = time.Date(2008, time.December, 31, 0, 0, 0, 0, time.UTC)
	academicDegrees   = []string{"BSc", "MSc", "PhD", "Dr."}
)

// Generator creates random records. It is not safe for concurrent use.
type Generator struct {
	faker *gofakeit.Faker
}

// New creates a generator. The same non-zero seed yields the same sequence of records. A zero
// seed picks a random one.
func New(seed uint64) *Generator {
	return &Generator{faker: gofakeit.New(seed)}
}

// Human returns a human with a birth date and a matching identity code.
func (g *Generator) Human() api.Human {
	f := g.faker
	gender := "M"
	if f.Bool() {
		gender = "F"
	}
	birthDate := f.DateRange(oldestBirthDate, youngestBirthDate).Truncate(24 * time.Hour)
	code := g.IdentityCode(gender, birthDate)
	human := api.Human{
		FirstName:    f.FirstName(),
		LastName:     f.LastName(),
		Gender:       gender,
		BirthDate:    &birthDate,
		IdentityCode: &code,
	}
	if f.Number(1, 4) == 1 {
		degree := f.RandomString(academicDegrees)
		human.AcademicDegree = &degree
	}
	return human
}

// IdentityCode returns a valid personal identity code for a person of the given gender ("M" or
// "F") born on birthDate. The serial number is random.
func (g *Generator) IdentityCode(gender string, birthDate time.Time) string {
	first := 3
	if birthDate.Year() >= 2000 {
		first = 5
	}
	if gender == "F" {
		first++
	}
	prefix := fmt.Sprintf("%d%s%03d", first, birthDate.Format("060102"), g.faker.Number(0, 999))
	for digit := 0; digit < 10; digit++ {
		code := fmt.Sprintf("%s%d", prefix, digit)
		if model.ValidIdentityCode(code) {
			return code
		}
	}
	// unreachable, one of the ten check digits always fits
	return prefix + "0"
}

// Phone returns a Lithuanian mobile number.
func (g *Generator) Phone() api.Phone {
	return api.Phone{Number: g.faker.Numerify("+370 6## #####")}
}

// Email returns an email address. A random tag keeps addresses apart when many are created.
func (g *Generator) Email() api.Email {
	return api.Email{Address: g.faker.Numerify(g.faker.Username() + "####@example.com")}
}

// Address returns a street address in a random town.
func (g *Generator) Address() api.Address {
	return api.Address{
		Town:    g.faker.City(),
		Address: g.faker.Street(),
	}
}
