package repository

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kendall-kelly/print-shop-api/models"
)

// Column counts of the three user files
const (
	adminFields    = 7
	staffFields    = 6
	customerFields = 10
)

func splitTrimmed(line string) []string {
	parts := strings.Split(line, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// parseAdminLine reads id,name,email,contactNumber,username,password,active
func parseAdminLine(line string) (models.User, error) {
	parts := splitTrimmed(line)
	if len(parts) < adminFields {
		return models.User{}, fmt.Errorf("expected %d fields, found %d", adminFields, len(parts))
	}
	id, err := strconv.Atoi(parts[0])
	if err != nil {
		return models.User{}, fmt.Errorf("invalid id %q", parts[0])
	}
	return models.User{
		ID:            id,
		Name:          parts[1],
		StudentID:     models.NotApplicable,
		Email:         parts[2],
		ContactNumber: parts[3],
		Course:        models.NotApplicable,
		Section:       models.NotApplicable,
		Username:      parts[4],
		Password:      parts[5],
		Role:          models.RoleAdmin,
		Active:        parseBool(parts[6]),
	}, nil
}

func formatAdminLine(u models.User) string {
	return strings.Join([]string{
		strconv.Itoa(u.ID),
		cleanField(u.Name),
		cleanField(u.Email),
		cleanField(u.ContactNumber),
		cleanField(u.Username),
		cleanField(u.Password),
		strconv.FormatBool(u.Active),
	}, ",")
}

// parseStaffLine reads id,name,email,contactNumber,username,password. Staff are always active.
func parseStaffLine(line string) (models.User, error) {
	parts := splitTrimmed(line)
	if len(parts) < staffFields {
		return models.User{}, fmt.Errorf("expected %d fields, found %d", staffFields, len(parts))
	}
	id, err := strconv.Atoi(parts[0])
	if err != nil {
		return models.User{}, fmt.Errorf("invalid id %q", parts[0])
	}
	return models.User{
		ID:            id,
		Name:          parts[1],
		StudentID:     models.NotApplicable,
		Email:         parts[2],
		ContactNumber: parts[3],
		Course:        models.NotApplicable,
		Section:       models.NotApplicable,
		Username:      parts[4],
		Password:      parts[5],
		Role:          models.RoleStaff,
		Active:        true,
	}, nil
}

func formatStaffLine(u models.User) string {
	return strings.Join([]string{
		strconv.Itoa(u.ID),
		cleanField(u.Name),
		cleanField(u.Email),
		cleanField(u.ContactNumber),
		cleanField(u.Username),
		cleanField(u.Password),
	}, ",")
}

// parseCustomerLine reads id,name,studentId,email,contactNumber,course,section,username,password,active
func parseCustomerLine(line string) (models.User, error) {
	parts := splitTrimmed(line)
	if len(parts) != customerFields {
		return models.User{}, fmt.Errorf("expected %d fields, found %d", customerFields, len(parts))
	}
	id, err := strconv.Atoi(parts[0])
	if err != nil {
		return models.User{}, fmt.Errorf("invalid id %q", parts[0])
	}
	return models.User{
		ID:            id,
		Name:          parts[1],
		StudentID:     parts[2],
		Email:         parts[3],
		ContactNumber: parts[4],
		Course:        parts[5],
		Section:       parts[6],
		Username:      parts[7],
		Password:      parts[8],
		Role:          models.RoleCustomer,
		Active:        parseBool(parts[9]),
	}, nil
}

func formatCustomerLine(u models.User) string {
	return strings.Join([]string{
		strconv.Itoa(u.ID),
		cleanField(u.Name),
		cleanField(orNA(u.StudentID)),
		cleanField(u.Email),
		cleanField(u.ContactNumber),
		cleanField(orNA(u.Course)),
		cleanField(orNA(u.Section)),
		cleanField(u.Username),
		cleanField(u.Password),
		strconv.FormatBool(u.Active),
	}, ",")
}

// normalizeUser rewrites the text columns of u the way they read back from disk
func normalizeUser(u models.User) models.User {
	u.Name = storedField(u.Name)
	u.StudentID = storedField(u.StudentID)
	u.Email = storedField(u.Email)
	u.ContactNumber = storedField(u.ContactNumber)
	u.Course = storedField(u.Course)
	u.Section = storedField(u.Section)
	u.Username = storedField(u.Username)
	u.Password = storedField(u.Password)
	return u
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return models.NotApplicable
	}
	return s
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	return err == nil && b
}

// lineID returns the leading id column of a user line
func lineID(line string) (int, bool) {
	head, _, _ := strings.Cut(line, ",")
	id, err := strconv.Atoi(strings.TrimSpace(head))
	return id, err == nil
}
