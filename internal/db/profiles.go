package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-forge/internal/types"
)

// CreateProfile creates an empty profile owned by a user.
func (db *DB) CreateProfile(ctx context.Context, userID uuid.UUID) (*types.Profile, error) {
	var p types.Profile
	err := db.pool.QueryRow(ctx,
		`INSERT INTO profiles (user_id)
		 VALUES ($1)
		 RETURNING id, user_id, created_at, updated_at`,
		userID,
	).Scan(&p.ID, &p.UserID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return &p, nil
}

// GetProfile loads the full profile aggregate: every child entity in
// insertion order, vectors included. Returns (nil, nil) when not found.
func (db *DB) GetProfile(ctx context.Context, id uuid.UUID) (*types.Profile, error) {
	var p types.Profile
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, created_at, updated_at FROM profiles WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.UserID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	if err := db.loadPersonalInfo(ctx, &p); err != nil {
		return nil, err
	}
	if err := db.loadEducation(ctx, &p); err != nil {
		return nil, err
	}
	if err := db.loadSkills(ctx, &p); err != nil {
		return nil, err
	}
	if err := db.loadExperiences(ctx, &p); err != nil {
		return nil, err
	}
	if err := db.loadProjects(ctx, &p); err != nil {
		return nil, err
	}
	if err := db.loadCertifications(ctx, &p); err != nil {
		return nil, err
	}
	if err := db.loadAchievements(ctx, &p); err != nil {
		return nil, err
	}
	if err := db.loadExternalProfiles(ctx, &p); err != nil {
		return nil, err
	}

	return &p, nil
}

// ListProfileIDsByUser returns the IDs of all profiles owned by a user,
// oldest first.
func (db *DB) ListProfileIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id FROM profiles WHERE user_id = $1 ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan profile id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DeleteProfile destroys the profile aggregate through an explicit typed
// traversal, leaves first, inside one transaction. Resumes referencing the
// profile go too.
func (db *DB) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin delete: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	statements := []string{
		`DELETE FROM resume_sections WHERE resume_id IN (SELECT id FROM resumes WHERE profile_id = $1)`,
		`DELETE FROM resumes WHERE profile_id = $1`,
		`DELETE FROM experience_bullets WHERE experience_id IN (SELECT id FROM experiences WHERE profile_id = $1)`,
		`DELETE FROM experiences WHERE profile_id = $1`,
		`DELETE FROM project_bullets WHERE project_id IN (SELECT id FROM projects WHERE profile_id = $1)`,
		`DELETE FROM projects WHERE profile_id = $1`,
		`DELETE FROM skills WHERE profile_id = $1`,
		`DELETE FROM education WHERE profile_id = $1`,
		`DELETE FROM certifications WHERE profile_id = $1`,
		`DELETE FROM achievements WHERE profile_id = $1`,
		`DELETE FROM external_profiles WHERE profile_id = $1`,
		`DELETE FROM personal_info WHERE profile_id = $1`,
		`DELETE FROM profiles WHERE id = $1`,
	}
	for _, stmt := range statements {
		if _, err := tx.Exec(ctx, stmt, id); err != nil {
			return fmt.Errorf("failed to delete profile: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit profile delete: %w", err)
	}
	return nil
}

// UpsertPersonalInfo creates or replaces the profile's contact block.
func (db *DB) UpsertPersonalInfo(ctx context.Context, profileID uuid.UUID, fullName, email, phone string) (*types.PersonalInfo, error) {
	var pi types.PersonalInfo
	err := db.pool.QueryRow(ctx,
		`INSERT INTO personal_info (profile_id, full_name, email, phone_number)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (profile_id) DO UPDATE SET
		     full_name = $2, email = $3, phone_number = $4
		 RETURNING id, profile_id, full_name, email, phone_number`,
		profileID, fullName, email, phone,
	).Scan(&pi.ID, &pi.ProfileID, &pi.FullName, &pi.Email, &pi.PhoneNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert personal info: %w", err)
	}
	return &pi, nil
}

// AddEducation appends an education entry to a profile.
func (db *DB) AddEducation(ctx context.Context, profileID uuid.UUID, e types.Education) (*types.Education, error) {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO education (profile_id, institution, degree, field_of_study, start_year, end_year, grade)
		 VALUES ($1, $2, $3, $4, NULLIF($5, 0), NULLIF($6, 0), $7)
		 RETURNING id`,
		profileID, e.Institution, e.Degree, e.FieldOfStudy, e.StartYear, e.EndYear, e.Grade,
	).Scan(&e.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to add education: %w", err)
	}
	e.ProfileID = profileID
	return &e, nil
}

// AddSkill appends a skill to a profile.
func (db *DB) AddSkill(ctx context.Context, profileID uuid.UUID, name, category string) (*types.Skill, error) {
	s := types.Skill{ProfileID: profileID, Name: name, Category: category}
	err := db.pool.QueryRow(ctx,
		`INSERT INTO skills (profile_id, skill_name, skill_category)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		profileID, name, category,
	).Scan(&s.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to add skill: %w", err)
	}
	return &s, nil
}

// AddExperience appends an experience entry and its bullets.
func (db *DB) AddExperience(ctx context.Context, profileID uuid.UUID, exp types.Experience) (*types.Experience, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin experience insert: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx,
		`INSERT INTO experiences (profile_id, company, role, start_date, end_date)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		profileID, exp.Company, exp.Role, exp.StartDate, exp.EndDate,
	).Scan(&exp.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to add experience: %w", err)
	}
	exp.ProfileID = profileID

	for i := range exp.Bullets {
		b := &exp.Bullets[i]
		err = tx.QueryRow(ctx,
			`INSERT INTO experience_bullets (experience_id, bullet_text)
			 VALUES ($1, $2)
			 RETURNING id`,
			exp.ID, b.Text,
		).Scan(&b.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to add experience bullet: %w", err)
		}
		b.ExperienceID = exp.ID
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit experience insert: %w", err)
	}
	return &exp, nil
}

// AddProject appends a project entry and its bullets.
func (db *DB) AddProject(ctx context.Context, profileID uuid.UUID, proj types.Project) (*types.Project, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin project insert: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx,
		`INSERT INTO projects (profile_id, project_title, description, tech_stack)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		profileID, proj.Title, proj.Description, proj.TechStack,
	).Scan(&proj.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to add project: %w", err)
	}
	proj.ProfileID = profileID

	for i := range proj.Bullets {
		b := &proj.Bullets[i]
		err = tx.QueryRow(ctx,
			`INSERT INTO project_bullets (project_id, bullet_text)
			 VALUES ($1, $2)
			 RETURNING id`,
			proj.ID, b.Text,
		).Scan(&b.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to add project bullet: %w", err)
		}
		b.ProjectID = proj.ID
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit project insert: %w", err)
	}
	return &proj, nil
}

// AddCertification appends a certification to a profile.
func (db *DB) AddCertification(ctx context.Context, profileID uuid.UUID, c types.Certification) (*types.Certification, error) {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO certifications (profile_id, name, issuing_organization, year)
		 VALUES ($1, $2, $3, NULLIF($4, 0))
		 RETURNING id`,
		profileID, c.Name, c.IssuingOrganization, c.Year,
	).Scan(&c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to add certification: %w", err)
	}
	c.ProfileID = profileID
	return &c, nil
}

// AddAchievement appends an achievement to a profile.
func (db *DB) AddAchievement(ctx context.Context, profileID uuid.UUID, a types.Achievement) (*types.Achievement, error) {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO achievements (profile_id, title, description, category)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		profileID, a.Title, a.Description, a.Category,
	).Scan(&a.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to add achievement: %w", err)
	}
	a.ProfileID = profileID
	return &a, nil
}

// AddExternalProfile appends an external profile link.
func (db *DB) AddExternalProfile(ctx context.Context, profileID uuid.UUID, platform, url string) (*types.ExternalProfile, error) {
	ep := types.ExternalProfile{ProfileID: profileID, Platform: platform, ProfileURL: url}
	err := db.pool.QueryRow(ctx,
		`INSERT INTO external_profiles (profile_id, platform, profile_url)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		profileID, platform, url,
	).Scan(&ep.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to add external profile: %w", err)
	}
	return &ep, nil
}

// ── aggregate loaders ────────────────────────────────────────────────────

func (db *DB) loadPersonalInfo(ctx context.Context, p *types.Profile) error {
	var pi types.PersonalInfo
	err := db.pool.QueryRow(ctx,
		`SELECT id, profile_id, full_name, email, phone_number
		 FROM personal_info WHERE profile_id = $1`,
		p.ID,
	).Scan(&pi.ID, &pi.ProfileID, &pi.FullName, &pi.Email, &pi.PhoneNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("failed to load personal info: %w", err)
	}
	p.PersonalInfo = &pi
	return nil
}

func (db *DB) loadEducation(ctx context.Context, p *types.Profile) error {
	rows, err := db.pool.Query(ctx,
		`SELECT id, profile_id, institution, degree, field_of_study,
		        COALESCE(start_year, 0), COALESCE(end_year, 0), grade
		 FROM education WHERE profile_id = $1 ORDER BY created_at, id`,
		p.ID)
	if err != nil {
		return fmt.Errorf("failed to load education: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e types.Education
		if err := rows.Scan(&e.ID, &e.ProfileID, &e.Institution, &e.Degree,
			&e.FieldOfStudy, &e.StartYear, &e.EndYear, &e.Grade); err != nil {
			return fmt.Errorf("failed to scan education: %w", err)
		}
		p.Education = append(p.Education, e)
	}
	return rows.Err()
}

func (db *DB) loadSkills(ctx context.Context, p *types.Profile) error {
	rows, err := db.pool.Query(ctx,
		`SELECT id, profile_id, skill_name, skill_category
		 FROM skills WHERE profile_id = $1 ORDER BY created_at, id`,
		p.ID)
	if err != nil {
		return fmt.Errorf("failed to load skills: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s types.Skill
		if err := rows.Scan(&s.ID, &s.ProfileID, &s.Name, &s.Category); err != nil {
			return fmt.Errorf("failed to scan skill: %w", err)
		}
		p.Skills = append(p.Skills, s)
	}
	return rows.Err()
}

func (db *DB) loadExperiences(ctx context.Context, p *types.Profile) error {
	rows, err := db.pool.Query(ctx,
		`SELECT id, profile_id, company, role, start_date, end_date, section_vector
		 FROM experiences WHERE profile_id = $1 ORDER BY created_at, id`,
		p.ID)
	if err != nil {
		return fmt.Errorf("failed to load experiences: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var exp types.Experience
		var vecJSON []byte
		if err := rows.Scan(&exp.ID, &exp.ProfileID, &exp.Company, &exp.Role,
			&exp.StartDate, &exp.EndDate, &vecJSON); err != nil {
			return fmt.Errorf("failed to scan experience: %w", err)
		}
		exp.SectionVector = vectorFromJSON(vecJSON)
		p.Experiences = append(p.Experiences, exp)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range p.Experiences {
		if err := db.loadExperienceBullets(ctx, &p.Experiences[i]); err != nil {
			return err
		}
	}
	return nil
}

func (db *DB) loadExperienceBullets(ctx context.Context, exp *types.Experience) error {
	rows, err := db.pool.Query(ctx,
		`SELECT id, experience_id, bullet_text, embedding
		 FROM experience_bullets WHERE experience_id = $1 ORDER BY created_at, id`,
		exp.ID)
	if err != nil {
		return fmt.Errorf("failed to load experience bullets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var b types.ExperienceBullet
		var vecJSON []byte
		if err := rows.Scan(&b.ID, &b.ExperienceID, &b.Text, &vecJSON); err != nil {
			return fmt.Errorf("failed to scan experience bullet: %w", err)
		}
		b.Vector = vectorFromJSON(vecJSON)
		exp.Bullets = append(exp.Bullets, b)
	}
	return rows.Err()
}

func (db *DB) loadProjects(ctx context.Context, p *types.Profile) error {
	rows, err := db.pool.Query(ctx,
		`SELECT id, profile_id, project_title, description, tech_stack
		 FROM projects WHERE profile_id = $1 ORDER BY created_at, id`,
		p.ID)
	if err != nil {
		return fmt.Errorf("failed to load projects: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var proj types.Project
		if err := rows.Scan(&proj.ID, &proj.ProfileID, &proj.Title,
			&proj.Description, &proj.TechStack); err != nil {
			return fmt.Errorf("failed to scan project: %w", err)
		}
		p.Projects = append(p.Projects, proj)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range p.Projects {
		if err := db.loadProjectBullets(ctx, &p.Projects[i]); err != nil {
			return err
		}
	}
	return nil
}

func (db *DB) loadProjectBullets(ctx context.Context, proj *types.Project) error {
	rows, err := db.pool.Query(ctx,
		`SELECT id, project_id, bullet_text, embedding
		 FROM project_bullets WHERE project_id = $1 ORDER BY created_at, id`,
		proj.ID)
	if err != nil {
		return fmt.Errorf("failed to load project bullets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var b types.ProjectBullet
		var vecJSON []byte
		if err := rows.Scan(&b.ID, &b.ProjectID, &b.Text, &vecJSON); err != nil {
			return fmt.Errorf("failed to scan project bullet: %w", err)
		}
		b.Vector = vectorFromJSON(vecJSON)
		proj.Bullets = append(proj.Bullets, b)
	}
	return rows.Err()
}

func (db *DB) loadCertifications(ctx context.Context, p *types.Profile) error {
	rows, err := db.pool.Query(ctx,
		`SELECT id, profile_id, name, issuing_organization, COALESCE(year, 0)
		 FROM certifications WHERE profile_id = $1 ORDER BY created_at, id`,
		p.ID)
	if err != nil {
		return fmt.Errorf("failed to load certifications: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c types.Certification
		if err := rows.Scan(&c.ID, &c.ProfileID, &c.Name, &c.IssuingOrganization, &c.Year); err != nil {
			return fmt.Errorf("failed to scan certification: %w", err)
		}
		p.Certifications = append(p.Certifications, c)
	}
	return rows.Err()
}

func (db *DB) loadAchievements(ctx context.Context, p *types.Profile) error {
	rows, err := db.pool.Query(ctx,
		`SELECT id, profile_id, title, description, category
		 FROM achievements WHERE profile_id = $1 ORDER BY created_at, id`,
		p.ID)
	if err != nil {
		return fmt.Errorf("failed to load achievements: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a types.Achievement
		if err := rows.Scan(&a.ID, &a.ProfileID, &a.Title, &a.Description, &a.Category); err != nil {
			return fmt.Errorf("failed to scan achievement: %w", err)
		}
		p.Achievements = append(p.Achievements, a)
	}
	return rows.Err()
}

func (db *DB) loadExternalProfiles(ctx context.Context, p *types.Profile) error {
	rows, err := db.pool.Query(ctx,
		`SELECT id, profile_id, platform, profile_url
		 FROM external_profiles WHERE profile_id = $1 ORDER BY created_at, id`,
		p.ID)
	if err != nil {
		return fmt.Errorf("failed to load external profiles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ep types.ExternalProfile
		if err := rows.Scan(&ep.ID, &ep.ProfileID, &ep.Platform, &ep.ProfileURL); err != nil {
			return fmt.Errorf("failed to scan external profile: %w", err)
		}
		p.ExternalProfiles = append(p.ExternalProfiles, ep)
	}
	return rows.Err()
}
