// Command main seeds reference and demo data into the forum database.
package main

import (
	"context"
	"flag"
	"log"

	"forum/internal/auth"
	"forum/internal/bootstrap"
	"forum/internal/config"
	"forum/internal/seed"

	"github.com/joho/godotenv"
)

func main() {
	numUsers := flag.Int("demo-users", 0, "Number of demo users to create (0 = no demo data)")
	numPosts := flag.Int("demo-posts", 0, "Number of demo posts to create")
	maxComments := flag.Int("demo-max-comments", 3, "Upper bound of comments per demo post")
	fakeSeed := flag.Int64("demo-seed", 0, "Fixed gofakeit seed for reproducible data (0 = random)")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	db, _, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{SeedReferenceData: true})
	if err != nil {
		log.Fatalf("❌ Runtime initialization failed: %v", err)
	}
	log.Println("✅ Study programs and admin account ensured")

	if *numUsers <= 0 {
		return
	}

	log.Printf("Target: %d users, %d posts\n", *numUsers, *numPosts)
	s := seed.NewSeeder(db, auth.NewBcryptHasher(cfg.BcryptCost))
	res, err := s.Demo(ctx, seed.DemoOptions{
		Users:       *numUsers,
		Posts:       *numPosts,
		MaxComments: *maxComments,
		Seed:        *fakeSeed,
	})
	if err != nil {
		log.Fatalf("❌ Demo seeding failed: %v", err)
	}

	log.Printf("✨ Created %d users, %d posts, %d comments", res.Users, res.Posts, res.Comments)
	log.Printf("📧 All demo users have the password: %s", seed.DemoPassword)
}
