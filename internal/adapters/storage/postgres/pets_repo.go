package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"petstore-api/internal/domain/pets"
	"petstore-api/internal/query"
)

type CategoriesRepo struct {
	db *sql.DB
}

func NewCategoriesRepo(db *sql.DB) *CategoriesRepo {
	return &CategoriesRepo{db: db}
}

func (r *CategoriesRepo) Create(ctx context.Context, c pets.Category) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO categories (id, name) VALUES ($1, $2)", c.ID, c.Name)
	return err
}

func (r *CategoriesRepo) Update(ctx context.Context, c pets.Category) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE categories SET name = $2 WHERE id = $1", c.ID, c.Name)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return pets.ErrCategoryNotFound
	}
	return nil
}

func (r *CategoriesRepo) GetByID(ctx context.Context, id string) (pets.Category, error) {
	var c pets.Category
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name FROM categories WHERE id = $1", id).Scan(&c.ID, &c.Name)
	if err == sql.ErrNoRows {
		return pets.Category{}, pets.ErrCategoryNotFound
	}
	return c, err
}

// Delete deja en NULL la categoría de las mascotas que la referencian;
// eso lo resuelve el ON DELETE SET NULL del esquema.
func (r *CategoriesRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM categories WHERE id = $1", id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return pets.ErrCategoryNotFound
	}
	return nil
}

func (r *CategoriesRepo) List(ctx context.Context, plan query.Plan) ([]pets.Category, query.PageInfo, error) {
	q := &listQuery{}
	if plan.Search != "" {
		q.searchILike(plan.Search, "name ILIKE %s")
	}

	total, err := countTotal(ctx, r.db, "categories", q)
	if err != nil {
		return nil, query.PageInfo{}, err
	}

	orderCols := map[string]string{"name": "name", "id": "id"}
	sqlStr := "SELECT id, name FROM categories" + q.whereClause() +
		q.orderLimit(plan, orderCols, "id ASC")

	rows, err := r.db.QueryContext(ctx, sqlStr, q.args...)
	if err != nil {
		return nil, query.PageInfo{}, err
	}
	defer rows.Close()

	out := make([]pets.Category, 0)
	for rows.Next() {
		var c pets.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, query.PageInfo{}, err
		}
		out = append(out, c)
	}
	return out, plan.PageInfo(total), rows.Err()
}

func (r *CategoriesRepo) Exists(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1)", id).Scan(&ok)
	return ok, err
}

func (r *CategoriesRepo) NameTaken(ctx context.Context, name, excludeID string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM categories WHERE name = $1 AND id <> $2)",
		name, excludeID).Scan(&ok)
	return ok, err
}

type TagsRepo struct {
	db *sql.DB
}

func NewTagsRepo(db *sql.DB) *TagsRepo {
	return &TagsRepo{db: db}
}

func (r *TagsRepo) Create(ctx context.Context, t pets.Tag) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO tags (id, name) VALUES ($1, $2)", t.ID, t.Name)
	return err
}

func (r *TagsRepo) Update(ctx context.Context, t pets.Tag) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE tags SET name = $2 WHERE id = $1", t.ID, t.Name)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return pets.ErrTagNotFound
	}
	return nil
}

func (r *TagsRepo) GetByID(ctx context.Context, id string) (pets.Tag, error) {
	var t pets.Tag
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name FROM tags WHERE id = $1", id).Scan(&t.ID, &t.Name)
	if err == sql.ErrNoRows {
		return pets.Tag{}, pets.ErrTagNotFound
	}
	return t, err
}

func (r *TagsRepo) GetByIDs(ctx context.Context, ids []string) ([]pets.Tag, error) {
	if len(ids) == 0 {
		return []pets.Tag{}, nil
	}

	q := &listQuery{}
	sqlStr := "SELECT id, name FROM tags WHERE id IN (" + q.inList(ids) + ")"
	rows, err := r.db.QueryContext(ctx, sqlStr, q.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[string]pets.Tag, len(ids))
	for rows.Next() {
		var t pets.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		byID[t.ID] = t
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// se respeta el orden de los ids pedidos
	out := make([]pets.Tag, 0, len(ids))
	for _, id := range ids {
		if t, ok := byID[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

// Delete quita el tag de cada mascota vía el ON DELETE CASCADE de pet_tags.
func (r *TagsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM tags WHERE id = $1", id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return pets.ErrTagNotFound
	}
	return nil
}

func (r *TagsRepo) List(ctx context.Context, plan query.Plan) ([]pets.Tag, query.PageInfo, error) {
	q := &listQuery{}
	if plan.Search != "" {
		q.searchILike(plan.Search, "name ILIKE %s")
	}

	total, err := countTotal(ctx, r.db, "tags", q)
	if err != nil {
		return nil, query.PageInfo{}, err
	}

	orderCols := map[string]string{"name": "name", "id": "id"}
	sqlStr := "SELECT id, name FROM tags" + q.whereClause() +
		q.orderLimit(plan, orderCols, "id ASC")

	rows, err := r.db.QueryContext(ctx, sqlStr, q.args...)
	if err != nil {
		return nil, query.PageInfo{}, err
	}
	defer rows.Close()

	out := make([]pets.Tag, 0)
	for rows.Next() {
		var t pets.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, query.PageInfo{}, err
		}
		out = append(out, t)
	}
	return out, plan.PageInfo(total), rows.Err()
}

func (r *TagsRepo) Missing(ctx context.Context, ids []string) ([]string, error) {
	existing, err := r.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	have := make(map[string]bool, len(existing))
	for _, t := range existing {
		have[t.ID] = true
	}

	missing := make([]string, 0)
	for _, id := range ids {
		if !have[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func (r *TagsRepo) NameTaken(ctx context.Context, name, excludeID string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM tags WHERE name = $1 AND id <> $2)",
		name, excludeID).Scan(&ok)
	return ok, err
}

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

const petCols = "id, name, category_id, status, created_at, updated_at"

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO pets (`+petCols+`)
		VALUES ($1,$2,$3,$4,$5,$6)
	`,
		p.ID,
		p.Name,
		toNullString(p.CategoryID),
		string(p.Status),
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if err := insertPetRefs(ctx, tx, p); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE pets
		SET name = $2,
			category_id = $3,
			status = $4,
			updated_at = $5
		WHERE id = $1
	`,
		p.ID,
		p.Name,
		toNullString(p.CategoryID),
		string(p.Status),
		p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return pets.ErrPetNotFound
	}

	// fotos y tags se reescriben completos; son sets chicos
	if _, err := tx.ExecContext(ctx, "DELETE FROM pet_photos WHERE pet_id = $1", p.ID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM pet_tags WHERE pet_id = $1", p.ID); err != nil {
		return err
	}
	if err := insertPetRefs(ctx, tx, p); err != nil {
		return err
	}
	return tx.Commit()
}

func insertPetRefs(ctx context.Context, tx *sql.Tx, p pets.Pet) error {
	for i, url := range p.PhotoURLs {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO pet_photos (pet_id, position, url) VALUES ($1, $2, $3)",
			p.ID, i, url)
		if err != nil {
			return err
		}
	}
	for i, tagID := range p.TagIDs {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO pet_tags (pet_id, position, tag_id) VALUES ($1, $2, $3)",
			p.ID, i, tagID)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+petCols+" FROM pets WHERE id = $1", id)

	p, err := scanPet(row)
	if err == sql.ErrNoRows {
		return pets.Pet{}, pets.ErrPetNotFound
	}
	if err != nil {
		return pets.Pet{}, err
	}

	list := []pets.Pet{p}
	if err := r.loadRefs(ctx, list); err != nil {
		return pets.Pet{}, err
	}
	return list[0], nil
}

// Delete borra el pet; sus fotos, tags y órdenes caen por cascada.
func (r *PetsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM pets WHERE id = $1", id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return pets.ErrPetNotFound
	}
	return nil
}

func (r *PetsRepo) List(ctx context.Context, plan query.Plan) ([]pets.Pet, query.PageInfo, error) {
	q := &listQuery{}

	for _, flt := range plan.Filters {
		switch flt.Field {
		case "status":
			q.and(fmt.Sprintf("status = %s", q.arg(flt.Value)))
		case "category":
			q.and(fmt.Sprintf("category_id = %s", q.arg(flt.Value)))
		}
	}
	if plan.Search != "" {
		// la búsqueda cubre el nombre del pet y los nombres de sus tags
		q.searchILike(plan.Search,
			"name ILIKE %s",
			"EXISTS (SELECT 1 FROM pet_tags pt JOIN tags t ON t.id = pt.tag_id WHERE pt.pet_id = pets.id AND t.name ILIKE %s)",
		)
	}

	total, err := countTotal(ctx, r.db, "pets", q)
	if err != nil {
		return nil, query.PageInfo{}, err
	}

	orderCols := map[string]string{
		"name":       "name",
		"created_at": "created_at",
		"status":     "status",
	}
	sqlStr := "SELECT " + petCols + " FROM pets" + q.whereClause() +
		q.orderLimit(plan, orderCols, "created_at ASC, id ASC")

	out, err := r.queryPets(ctx, sqlStr, q.args...)
	if err != nil {
		return nil, query.PageInfo{}, err
	}
	return out, plan.PageInfo(total), nil
}

func (r *PetsRepo) FindByStatus(ctx context.Context, statuses []string) ([]pets.Pet, error) {
	if len(statuses) == 0 {
		return []pets.Pet{}, nil
	}
	q := &listQuery{}
	sqlStr := "SELECT " + petCols + " FROM pets WHERE status IN (" + q.inList(statuses) + ") ORDER BY created_at ASC, id ASC"
	return r.queryPets(ctx, sqlStr, q.args...)
}

func (r *PetsRepo) FindByTags(ctx context.Context, tagNames []string) ([]pets.Pet, error) {
	if len(tagNames) == 0 {
		return []pets.Pet{}, nil
	}
	q := &listQuery{}
	sqlStr := "SELECT " + petCols + ` FROM pets
		WHERE EXISTS (
			SELECT 1 FROM pet_tags pt
			JOIN tags t ON t.id = pt.tag_id
			WHERE pt.pet_id = pets.id AND t.name IN (` + q.inList(tagNames) + `)
		)
		ORDER BY created_at ASC, id ASC`
	return r.queryPets(ctx, sqlStr, q.args...)
}

func (r *PetsRepo) Exists(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM pets WHERE id = $1)", id).Scan(&ok)
	return ok, err
}

func (r *PetsRepo) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT status, COUNT(*) FROM pets GROUP BY status")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func (r *PetsRepo) queryPets(ctx context.Context, sqlStr string, args ...any) ([]pets.Pet, error) {
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadRefs(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// loadRefs completa PhotoURLs y TagIDs de la tanda en dos queries.
func (r *PetsRepo) loadRefs(ctx context.Context, out []pets.Pet) error {
	if len(out) == 0 {
		return nil
	}

	idx := make(map[string]int, len(out))
	ids := make([]string, 0, len(out))
	for i, p := range out {
		idx[p.ID] = i
		ids = append(ids, p.ID)
	}

	q := &listQuery{}
	rows, err := r.db.QueryContext(ctx,
		"SELECT pet_id, url FROM pet_photos WHERE pet_id IN ("+q.inList(ids)+") ORDER BY pet_id, position",
		q.args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var petID, url string
		if err := rows.Scan(&petID, &url); err != nil {
			return err
		}
		i := idx[petID]
		out[i].PhotoURLs = append(out[i].PhotoURLs, url)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	q = &listQuery{}
	rows, err = r.db.QueryContext(ctx,
		"SELECT pet_id, tag_id FROM pet_tags WHERE pet_id IN ("+q.inList(ids)+") ORDER BY pet_id, position",
		q.args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var petID, tagID string
		if err := rows.Scan(&petID, &tagID); err != nil {
			return err
		}
		i := idx[petID]
		out[i].TagIDs = append(out[i].TagIDs, tagID)
	}
	return rows.Err()
}

func scanPet(row rowScanner) (pets.Pet, error) {
	var p pets.Pet
	var cat sql.NullString
	var status string
	err := row.Scan(
		&p.ID,
		&p.Name,
		&cat,
		&status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return pets.Pet{}, err
	}
	p.CategoryID = fromNullString(cat)
	p.Status = pets.Status(status)
	return p, nil
}
