package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/stoodlemayer/gameshelf/internal/store"
	"github.com/stoodlemayer/gameshelf/pkg/models"
)

// DeviceFilter controls which devices are returned by List.
type DeviceFilter struct {
	Category string // Filter by DeviceCategory value.
	Search   string // Case-insensitive name search.
}

// DeviceRepository provides CRUD access to the user's devices.
type DeviceRepository interface {
	// Get returns a single device by ID.
	Get(ctx context.Context, id string) (*models.Device, error)

	// List returns a filtered, paginated list of devices.
	List(ctx context.Context, filter DeviceFilter, opts ListOptions) (*ListResult[models.Device], error)

	// ListAll returns every device, unpaginated, for the resolver.
	ListAll(ctx context.Context) ([]models.Device, error)

	// Create inserts a new device. If device.ID is empty, a UUID is generated.
	Create(ctx context.Context, device *models.Device) error

	// Update modifies an existing device's mutable fields.
	Update(ctx context.Context, device *models.Device) error

	// Delete removes a device by ID.
	Delete(ctx context.Context, id string) error
}

// Compile-time interface guard.
var _ DeviceRepository = (*SQLiteDeviceRepository)(nil)

// SQLiteDeviceRepository implements DeviceRepository using SQLite.
type SQLiteDeviceRepository struct {
	db *sql.DB
}

// NewSQLiteDeviceRepository creates a DeviceRepository and runs the library
// migrations.
func NewSQLiteDeviceRepository(ctx context.Context, st *store.SQLiteStore) (*SQLiteDeviceRepository, error) {
	if err := st.Migrate(ctx, "library", migrations()); err != nil {
		return nil, fmt.Errorf("library migrations: %w", err)
	}
	return &SQLiteDeviceRepository{db: st.DB()}, nil
}

// migrations returns the library module's schema history.
func migrations() []store.Migration {
	return []store.Migration{
		{
			Version:     1,
			Description: "create library_devices",
			Up: func(tx *sql.Tx) error {
				_, err := tx.Exec(`
					CREATE TABLE library_devices (
						id         TEXT PRIMARY KEY,
						name       TEXT NOT NULL,
						category   TEXT NOT NULL,
						loadouts   TEXT NOT NULL DEFAULT '[]',
						created_at DATETIME NOT NULL,
						updated_at DATETIME NOT NULL
					)
				`)
				return err
			},
		},
	}
}

// deviceColumns is the shared column list for device queries.
const deviceColumns = `id, name, category, loadouts, created_at, updated_at`

func (r *SQLiteDeviceRepository) Get(ctx context.Context, id string) (*models.Device, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+deviceColumns+` FROM library_devices WHERE id = ?`, id)
	d, err := scanDevice(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get device %q: %w", id, err)
	}
	return d, nil
}

func (r *SQLiteDeviceRepository) List(ctx context.Context, filter DeviceFilter, opts ListOptions) (*ListResult[models.Device], error) {
	opts = normalizeListOptions(opts)

	// Validate sortBy against allowed columns.
	sortCol := "name"
	allowedSorts := map[string]string{
		"name":       "name",
		"category":   "category",
		"created_at": "created_at",
		"updated_at": "updated_at",
	}
	if opts.SortBy != "" {
		if col, ok := allowedSorts[opts.SortBy]; ok {
			sortCol = col
		}
	}

	// Build WHERE clause with parameterized placeholders.
	where := "1=1"
	var args []any

	if filter.Category != "" {
		where += " AND category = ?"
		args = append(args, filter.Category)
	}
	if filter.Search != "" {
		where += " AND name LIKE ? COLLATE NOCASE"
		args = append(args, "%"+filter.Search+"%")
	}

	var total int
	//nolint:gosec // where uses parameterized placeholders only
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM library_devices WHERE "+where, args...,
	).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count devices: %w", err)
	}

	orderDir := "ASC"
	if opts.SortOrder == "desc" {
		orderDir = "DESC"
	}

	queryArgs := make([]any, 0, len(args)+2)
	queryArgs = append(queryArgs, args...)
	queryArgs = append(queryArgs, opts.Limit, opts.Offset)

	//nolint:gosec // where and sortCol are validated above, not user input
	query := fmt.Sprintf(
		"SELECT %s FROM library_devices WHERE %s ORDER BY %s %s LIMIT ? OFFSET ?",
		deviceColumns, where, sortCol, orderDir,
	)

	rows, err := r.db.QueryContext(ctx, query, queryArgs...)
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	defer rows.Close()

	devices, err := collectDevices(rows)
	if err != nil {
		return nil, err
	}

	return &ListResult[models.Device]{Items: devices, Total: total}, nil
}

func (r *SQLiteDeviceRepository) ListAll(ctx context.Context) ([]models.Device, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+deviceColumns+` FROM library_devices ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list all devices: %w", err)
	}
	defer rows.Close()
	return collectDevices(rows)
}

func (r *SQLiteDeviceRepository) Create(ctx context.Context, device *models.Device) error {
	if device.ID == "" {
		device.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if device.CreatedAt.IsZero() {
		device.CreatedAt = now
	}
	device.UpdatedAt = now

	loadoutsJSON, _ := json.Marshal(device.Loadouts)
	if device.Loadouts == nil {
		loadoutsJSON = []byte("[]")
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO library_devices (id, name, category, loadouts, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		device.ID, device.Name, string(device.Category), string(loadoutsJSON),
		device.CreatedAt, device.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create device: %w", err)
	}
	return nil
}

func (r *SQLiteDeviceRepository) Update(ctx context.Context, device *models.Device) error {
	device.UpdatedAt = time.Now().UTC()

	loadoutsJSON, _ := json.Marshal(device.Loadouts)
	if device.Loadouts == nil {
		loadoutsJSON = []byte("[]")
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE library_devices SET name = ?, category = ?, loadouts = ?, updated_at = ?
		WHERE id = ?`,
		device.Name, string(device.Category), string(loadoutsJSON), device.UpdatedAt,
		device.ID,
	)
	if err != nil {
		return fmt.Errorf("update device: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteDeviceRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM library_devices WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete device: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// scanDevice scans one row into a Device using the provided scan function.
func scanDevice(scan func(dest ...any) error) (*models.Device, error) {
	var d models.Device
	var category, loadoutsJSON string
	err := scan(&d.ID, &d.Name, &category, &loadoutsJSON, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	d.Category = models.DeviceCategory(category)
	_ = json.Unmarshal([]byte(loadoutsJSON), &d.Loadouts)
	return &d, nil
}

// collectDevices drains rows into a device slice.
func collectDevices(rows *sql.Rows) ([]models.Device, error) {
	devices := []models.Device{}
	for rows.Next() {
		d, err := scanDevice(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan device row: %w", err)
		}
		devices = append(devices, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate devices: %w", err)
	}
	return devices, nil
}
