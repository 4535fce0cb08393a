package main

import (
	"context"
	"flag"
	"log"

	"peraturan/internal/config"
	"peraturan/internal/repository/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed the corpus")
	clearData := flag.Bool("clear-data", false, "Clear all works, nodes and suggestions (keep schema)")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("🚫 BLOCKED: Cannot run destructive operations (--drop-tables or --clear-data) in production environment")
	}

	if *clearData {
		log.Printf("🧹 Clearing data only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else if *schemaOnly {
		log.Printf("🏗️  Setting up schema only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else {
		log.Printf("🌱 Seeding corpus (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	}

	// Create database connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.SupabaseDBURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Drop tables if requested
	if *dropTables {
		log.Println("🗑️  Dropping all tables...")
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("✅ Tables dropped")
	}

	// Run schema to ensure tables exist
	log.Println("📋 Ensuring database schema is up to date...")
	if err := runSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("✅ Schema ready")

	if *schemaOnly {
		log.Println("✅ Schema setup complete (schema-only mode)")
		return
	}

	if *clearData {
		log.Println("🧹 Clearing existing corpus...")
		if err := clearCorpus(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to clear data: %v", err)
		}
		log.Println("✅ Data cleared successfully")
		return
	}

	// Seed works and their pasal nodes
	log.Println("📝 Seeding works and document nodes...")

	works := seedWorks()
	for i, w := range works {
		workID, err := insertWork(ctx, pool, tables, w)
		if err != nil {
			log.Printf("❌ Failed to create work '%s': %v", w.slug, err)
			continue
		}

		for _, n := range w.nodes {
			if err := insertNode(ctx, pool, tables, workID, n); err != nil {
				log.Printf("❌ Failed to create node %s %s: %v", n.nodeType, n.number, err)
			}
		}

		log.Printf("✅ Created work %d/%d: %s (%d nodes)", i+1, len(works), w.slug, len(w.nodes))
	}

	log.Println("🎉 Seeding complete!")
}

// dropAllTables drops tables in dependency order
func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	for _, table := range []string{tables.Chunks, tables.Suggestions, tables.Revisions, tables.Nodes, tables.Works} {
		if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE"); err != nil {
			return err
		}
	}
	return nil
}

// runSchema creates tables if they don't exist
func runSchema(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	createWorks := `
		CREATE TABLE IF NOT EXISTS ` + tables.Works + ` (
			id BIGSERIAL PRIMARY KEY,
			reg_type_code TEXT NOT NULL,
			number TEXT NOT NULL,
			year INTEGER NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			UNIQUE(reg_type_code, number, year)
		)
	`
	if _, err := pool.Exec(ctx, createWorks); err != nil {
		return err
	}

	createNodes := `
		CREATE TABLE IF NOT EXISTS ` + tables.Nodes + ` (
			id BIGSERIAL PRIMARY KEY,
			work_id BIGINT NOT NULL REFERENCES ` + tables.Works + `(id) ON DELETE CASCADE,
			node_type TEXT NOT NULL,
			number TEXT,
			content_text TEXT NOT NULL,
			revision_id BIGINT,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createNodes); err != nil {
		return err
	}

	createRevisions := `
		CREATE TABLE IF NOT EXISTS ` + tables.Revisions + ` (
			id BIGSERIAL PRIMARY KEY,
			work_id BIGINT NOT NULL REFERENCES ` + tables.Works + `(id) ON DELETE CASCADE,
			node_id BIGINT NOT NULL REFERENCES ` + tables.Nodes + `(id) ON DELETE CASCADE,
			node_type TEXT NOT NULL,
			node_number TEXT,
			old_content TEXT,
			new_content TEXT NOT NULL,
			revision_type TEXT NOT NULL,
			reason TEXT NOT NULL,
			suggestion_id BIGINT,
			actor_type TEXT NOT NULL,
			created_by TEXT,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createRevisions); err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, "CREATE INDEX IF NOT EXISTS idx_"+tables.Revisions+"_node ON "+tables.Revisions+"(node_id, created_at DESC)"); err != nil {
		return err
	}

	createSuggestions := `
		CREATE TABLE IF NOT EXISTS ` + tables.Suggestions + ` (
			id BIGSERIAL PRIMARY KEY,
			work_id BIGINT NOT NULL REFERENCES ` + tables.Works + `(id) ON DELETE CASCADE,
			node_id BIGINT NOT NULL REFERENCES ` + tables.Nodes + `(id) ON DELETE CASCADE,
			node_type TEXT NOT NULL,
			node_number TEXT,
			current_content TEXT NOT NULL,
			suggested_content TEXT NOT NULL,
			user_reason TEXT,
			submitter_email TEXT,
			status TEXT NOT NULL DEFAULT 'pending',
			metadata JSONB,
			agent_decision TEXT,
			agent_confidence DOUBLE PRECISION,
			agent_modified_content TEXT,
			agent_response JSONB,
			reviewed_by TEXT,
			reviewed_at TIMESTAMPTZ,
			review_note TEXT,
			revision_id BIGINT REFERENCES ` + tables.Revisions + `(id),
			created_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createSuggestions); err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, "CREATE INDEX IF NOT EXISTS idx_"+tables.Suggestions+"_status ON "+tables.Suggestions+"(status, created_at DESC)"); err != nil {
		return err
	}

	createChunks := `
		CREATE TABLE IF NOT EXISTS ` + tables.Chunks + ` (
			id BIGSERIAL PRIMARY KEY,
			node_id BIGINT NOT NULL REFERENCES ` + tables.Nodes + `(id) ON DELETE CASCADE,
			content TEXT NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createChunks); err != nil {
		return err
	}

	return nil
}

// clearCorpus removes all rows but keeps the schema
func clearCorpus(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	for _, table := range []string{tables.Chunks, tables.Suggestions, tables.Revisions, tables.Nodes, tables.Works} {
		if _, err := pool.Exec(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

type seedNode struct {
	nodeType string
	number   string
	content  string
}

type seedWork struct {
	regTypeCode string
	number      string
	year        int
	slug        string
	title       string
	nodes       []seedNode
}

// seedWorks is a small dev corpus: enough cross-referencing content to
// exercise submission, verification and citation rendering end to end.
func seedWorks() []seedWork {
	return []seedWork{
		{
			regTypeCode: "uu",
			number:      "13",
			year:        2003,
			slug:        "uu-13-2003-ketenagakerjaan",
			title:       "Undang-Undang Nomor 13 Tahun 2003 tentang Ketenagakerjaan",
			nodes: []seedNode{
				{"pasal", "79", "Setiap pekerja/buruh berhak memperoleh waktu istirahat dan cuti sebagaimana dimaksud dalam Pasal 77."},
				{"pasal", "88", "Setiap pekerja/buruh berhak memperoleh penghasilan yang memenuhi penghidupan yang layak bagi kemanusiaan."},
				{"pasal", "90", "Pengusaha dilarang membayar upah lebih rendah dari upah minimum sebagaimana dimaksud dalam Pasal 89."},
			},
		},
		{
			regTypeCode: "uu",
			number:      "11",
			year:        2020,
			slug:        "uu-11-2020-cipta-kerja",
			title:       "Undang-Undang Nomor 11 Tahun 2020 tentang Cipta Kerja",
			nodes: []seedNode{
				{"pasal", "81", "Beberapa ketentuan dalam Undang-Undang Nomor 13 Tahun 2003 tentang Ketenagakerjaan diubah sebagai berikut."},
			},
		},
		{
			regTypeCode: "pp",
			number:      "35",
			year:        2021,
			slug:        "pp-35-2021-pkwt",
			title:       "Peraturan Pemerintah Nomor 35 Tahun 2021 tentang Perjanjian Kerja Waktu Tertentu",
			nodes: []seedNode{
				{"pasal", "2", "Hubungan kerja didasarkan pada perjanjian kerja sebagaimana diatur dalam Undang-Undang Nomor 13 Tahun 2003."},
			},
		},
	}
}

// insertWork upserts on slug so re-seeding is idempotent
func insertWork(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, w seedWork) (int64, error) {
	query := `
		INSERT INTO ` + tables.Works + ` (reg_type_code, number, year, slug, title)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (slug) DO UPDATE SET title = EXCLUDED.title
		RETURNING id
	`
	var id int64
	err := pool.QueryRow(ctx, query, w.regTypeCode, w.number, w.year, w.slug, w.title).Scan(&id)
	return id, err
}

// insertNode also writes the node's search chunk
func insertNode(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, workID int64, n seedNode) error {
	query := `
		INSERT INTO ` + tables.Nodes + ` (work_id, node_type, number, content_text)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	var nodeID int64
	if err := pool.QueryRow(ctx, query, workID, n.nodeType, n.number, n.content).Scan(&nodeID); err != nil {
		return err
	}

	_, err := pool.Exec(ctx, "INSERT INTO "+tables.Chunks+" (node_id, content) VALUES ($1, $2)", nodeID, n.content)
	return err
}
