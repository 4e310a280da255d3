package repository

import (
	"fmt"
	"sync"

	"github.com/kendall-kelly/print-shop-api/logger"
	"github.com/kendall-kelly/print-shop-api/models"
)

// Credentials of the admin synthesised when no admin record exists
const (
	DefaultAdminUsername = "admin1"
	DefaultAdminPassword = "passwordadmin"
)

// CredentialVerifier compares a stored credential with a presented password
type CredentialVerifier interface {
	Verify(stored, presented string) bool
}

// UserFiles locates the three user files
type UserFiles struct {
	Admins    string
	Staff     string
	Customers string
}

// UserDirectory holds admin, staff and customer records. Each role is persisted
// to its own file.
type UserDirectory struct {
	mu       sync.RWMutex
	files    UserFiles
	users    []models.User
	nextID   int
	verifier CredentialVerifier
	log      *logger.Logger
}

// NewUserDirectory creates an empty directory. Call Load before use.
func NewUserDirectory(files UserFiles, verifier CredentialVerifier, log *logger.Logger) *UserDirectory {
	return &UserDirectory{
		files:    files,
		nextID:   1,
		verifier: verifier,
		log:      log.WithComponent("users"),
	}
}

// Load reads all three files and makes sure at least one admin exists
func (d *UserDirectory) Load() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.loadRoleLocked(models.RoleAdmin)
	d.loadRoleLocked(models.RoleStaff)
	d.loadRoleLocked(models.RoleCustomer)
	d.ensureAdminLocked()
}

// LoadAdmins reloads only the admin file
func (d *UserDirectory) LoadAdmins() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.loadRoleLocked(models.RoleAdmin)
	d.ensureAdminLocked()
}

// LoadStaff reloads only the staff file
func (d *UserDirectory) LoadStaff() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.loadRoleLocked(models.RoleStaff)
}

// LoadCustomers reloads only the customer file
func (d *UserDirectory) LoadCustomers() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.loadRoleLocked(models.RoleCustomer)
}

// loadRoleLocked replaces the records of role with the contents of its file.
// When the file cannot be read the records already in memory are kept.
func (d *UserDirectory) loadRoleLocked(role string) {
	path, parse, ok := d.roleFile(role)
	if !ok {
		return
	}

	users, err := d.readFileLocked(path, role, parse)
	if err != nil {
		d.log.Error("failed to read user file, keeping loaded records", "path", path, "role", role, "error", err)
		return
	}

	kept := d.users[:0]
	for _, u := range d.users {
		if u.Role != role {
			kept = append(kept, u)
		}
	}
	d.users = append(kept, users...)
	for _, u := range users {
		if u.ID >= d.nextID {
			d.nextID = u.ID + 1
		}
	}
}

func (d *UserDirectory) roleFile(role string) (string, func(string) (models.User, error), bool) {
	switch role {
	case models.RoleAdmin:
		return d.files.Admins, parseAdminLine, true
	case models.RoleStaff:
		return d.files.Staff, parseStaffLine, true
	case models.RoleCustomer:
		return d.files.Customers, parseCustomerLine, true
	}
	d.log.Warn("no file for role", "role", role)
	return "", nil, false
}

// readFileLocked parses the user file at path without touching the directory.
// Lines whose id is held by another role or an earlier line are skipped.
func (d *UserDirectory) readFileLocked(path, role string, parse func(string) (models.User, error)) ([]models.User, error) {
	lines, exists, err := readLines(path)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := ensureFile(path); err != nil {
			d.log.Error("failed to create user file", "path", path, "error", err)
		}
		return nil, nil
	}

	taken := make(map[int]bool, len(d.users))
	for _, u := range d.users {
		if u.Role != role {
			taken[u.ID] = true
		}
	}

	users := make([]models.User, 0, len(lines))
	for n, line := range lines {
		if isComment(line) {
			continue
		}
		u, err := parse(line)
		if err != nil {
			d.log.Warn("skipped invalid user line", "path", path, "line", n+1, "reason", err.Error())
			continue
		}
		if taken[u.ID] {
			d.log.Warn("skipped user with duplicate id", "path", path, "line", n+1, "id", u.ID)
			continue
		}
		taken[u.ID] = true
		users = append(users, u)
	}
	return users, nil
}

func (d *UserDirectory) ensureAdminLocked() {
	for _, u := range d.users {
		if u.IsAdmin() {
			return
		}
	}

	admin := models.User{
		ID:            d.nextID,
		Name:          "Admin",
		StudentID:     models.NotApplicable,
		Email:         "admin@system.com",
		ContactNumber: "0000000000",
		Course:        models.NotApplicable,
		Section:       models.NotApplicable,
		Username:      DefaultAdminUsername,
		Password:      DefaultAdminPassword,
		Role:          models.RoleAdmin,
		Active:        true,
	}
	d.nextID++
	d.users = append(d.users, admin)
	d.log.Warn("no admin found, created default admin", "username", admin.Username, "id", admin.ID)
	d.persistRoleLocked(models.RoleAdmin)
}

func (d *UserDirectory) indexLocked(id int) (int, bool) {
	for i, u := range d.users {
		if u.ID == id {
			return i, true
		}
	}
	return -1, false
}

func (d *UserDirectory) usernameTakenLocked(username string, exceptID int) bool {
	for _, u := range d.users {
		if u.Username == username && u.ID != exceptID {
			return true
		}
	}
	return false
}

// Register adds an inactive customer and appends it to the customer file
func (d *UserDirectory) Register(u models.User) (models.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	u = normalizeUser(u)

	if d.usernameTakenLocked(u.Username, 0) {
		return models.User{}, fmt.Errorf("%w: username %q already exists", ErrDuplicate, u.Username)
	}

	u.ID = d.nextID
	d.nextID++
	u.Role = models.RoleCustomer
	u.Active = false
	u.StudentID = orNA(u.StudentID)
	u.Course = orNA(u.Course)
	u.Section = orNA(u.Section)
	d.users = append(d.users, u)

	if err := appendLine(d.files.Customers, formatCustomerLine(u)); err != nil {
		d.log.Error("failed to save customer", "id", u.ID, "error", err)
	}
	return u, nil
}

// CreateStaff adds an active staff member and appends it to the staff file
func (d *UserDirectory) CreateStaff(u models.User) (models.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	u = normalizeUser(u)

	if d.usernameTakenLocked(u.Username, 0) {
		return models.User{}, fmt.Errorf("%w: username %q already exists", ErrDuplicate, u.Username)
	}

	u.ID = d.nextID
	d.nextID++
	u.Role = models.RoleStaff
	u.Active = true
	u.StudentID = models.NotApplicable
	u.Course = models.NotApplicable
	u.Section = models.NotApplicable
	d.users = append(d.users, u)

	if err := appendLine(d.files.Staff, formatStaffLine(u)); err != nil {
		d.log.Error("failed to save staff", "id", u.ID, "error", err)
	}
	return u, nil
}

// Approve activates an inactive user. Customers are rewritten in place in the
// customer file, keeping its line order.
func (d *UserDirectory) Approve(id int) (models.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	i, ok := d.indexLocked(id)
	if !ok || d.users[i].Active {
		return models.User{}, fmt.Errorf("%w: no pending user with id %d", ErrNotFound, id)
	}
	d.users[i].Active = true
	u := d.users[i]

	if u.IsCustomer() {
		if err := d.replaceCustomerLine(u); err != nil {
			d.log.Error("failed to update customer", "id", u.ID, "error", err)
		}
	} else {
		d.persistRoleLocked(u.Role)
	}
	return u, nil
}

func (d *UserDirectory) replaceCustomerLine(u models.User) error {
	lines, _, err := readLines(d.files.Customers)
	if err != nil {
		return err
	}

	replaced := false
	for i, line := range lines {
		if isComment(line) {
			continue
		}
		if id, ok := lineID(line); ok && id == u.ID {
			lines[i] = formatCustomerLine(u)
			replaced = true
		}
	}
	if !replaced {
		lines = append(lines, formatCustomerLine(u))
	}
	return writeLines(d.files.Customers, lines)
}

// Remove deletes a user and rewrites the file owned by its role
func (d *UserDirectory) Remove(id int) (models.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	i, ok := d.indexLocked(id)
	if !ok {
		return models.User{}, fmt.Errorf("%w: user %d", ErrNotFound, id)
	}
	u := d.users[i]
	d.users = append(d.users[:i], d.users[i+1:]...)
	d.persistRoleLocked(u.Role)
	return u, nil
}

// Update replaces the record with the same id. The stored role is kept and the
// file owned by that role is rewritten.
func (d *UserDirectory) Update(u models.User) (models.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	u = normalizeUser(u)

	i, ok := d.indexLocked(u.ID)
	if !ok {
		return models.User{}, fmt.Errorf("%w: user %d", ErrNotFound, u.ID)
	}
	if d.usernameTakenLocked(u.Username, u.ID) {
		return models.User{}, fmt.Errorf("%w: username %q already exists", ErrDuplicate, u.Username)
	}

	u.Role = d.users[i].Role
	if u.IsStaff() {
		u.Active = true
	}
	d.users[i] = u
	d.persistRoleLocked(u.Role)
	return u, nil
}

func (d *UserDirectory) persistRoleLocked(role string) {
	var (
		path   string
		format func(models.User) string
	)
	switch role {
	case models.RoleAdmin:
		path, format = d.files.Admins, formatAdminLine
	case models.RoleStaff:
		path, format = d.files.Staff, formatStaffLine
	case models.RoleCustomer:
		path, format = d.files.Customers, formatCustomerLine
	default:
		d.log.Warn("no file for role", "role", role)
		return
	}

	var lines []string
	for _, u := range d.users {
		if u.Role == role {
			lines = append(lines, format(u))
		}
	}
	if err := writeLines(path, lines); err != nil {
		d.log.Error("failed to save users", "role", role, "path", path, "error", err)
	}
}

// ValidateLogin returns the active user whose username and password match
func (d *UserDirectory) ValidateLogin(username, password string) (models.User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, u := range d.users {
		if u.Username == username && u.Active && d.verifier.Verify(u.Password, password) {
			return u, true
		}
	}
	return models.User{}, false
}

// FindByID looks a user up by id
func (d *UserDirectory) FindByID(id int) (models.User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if i, ok := d.indexLocked(id); ok {
		return d.users[i], true
	}
	return models.User{}, false
}

// FindByUsername looks a user up by username
func (d *UserDirectory) FindByUsername(username string) (models.User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, u := range d.users {
		if u.Username == username {
			return u, true
		}
	}
	return models.User{}, false
}

// List returns users holding role, or every user when role is empty
func (d *UserDirectory) List(role string) []models.User {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]models.User, 0)
	for _, u := range d.users {
		if role == "" || u.Role == role {
			out = append(out, u)
		}
	}
	return out
}

// Pending returns customers awaiting approval
func (d *UserDirectory) Pending() []models.User {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]models.User, 0)
	for _, u := range d.users {
		if u.IsCustomer() && !u.Active {
			out = append(out, u)
		}
	}
	return out
}

// StaffIDs returns staff ids in file order
func (d *UserDirectory) StaffIDs() []int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var ids []int
	for _, u := range d.users {
		if u.IsStaff() && u.Active {
			ids = append(ids, u.ID)
		}
	}
	return ids
}

// Size returns the number of users
func (d *UserDirectory) Size() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.users)
}

// NextID returns the id the next created user will receive
func (d *UserDirectory) NextID() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.nextID
}
