package main

import (
	"context"
	"flag"
	"fleet-route-optimizer/internal/adapters/repositories"
	"fleet-route-optimizer/internal/config"
	"fleet-route-optimizer/internal/services"
	"log"
	"math/rand"
	"time"
)

// dbtool initializes the store and seeds it, or adds a random instance.
//
//	dbtool                          init schema and seed from SEED_PATH
//	dbtool -generate -name demo     store a random instance
func main() {
	config.LoadEnv()
	settings := config.FromEnv()

	var (
		seedPath  = flag.String("seed", settings.SeedPath, "JSON file of instances to seed")
		generate  = flag.Bool("generate", false, "store a random instance instead of seeding")
		name      = flag.String("name", "random", "name of the generated instance")
		customers = flag.Int("customers", 100, "customers of the generated instance")
		capacity  = flag.Int("capacity", 20, "vehicle capacity of the generated instance")
		maxDemand = flag.Int("max-demand", 5, "maximum customer demand")
		rngSeed   = flag.Int64("rng-seed", time.Now().UnixNano(), "random seed for -generate")
	)
	flag.Parse()

	ctx := context.Background()

	log.Println("Initializing database schema...")
	store, err := repositories.OpenStore(ctx, settings.DatabaseURL, settings.DBPath)
	if err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	defer store.Close()
	log.Printf("Schema ready. dialect=%s", store.Dialect)

	if *generate {
		inst, err := services.GenerateInstance(rand.New(rand.NewSource(*rngSeed)), services.GenerateInstanceRequest{
			Name:      *name,
			Customers: *customers,
			Capacity:  *capacity,
			MaxDemand: *maxDemand,
		})
		if err != nil {
			log.Fatalf("generate failed: %v", err)
		}
		if err := store.Instances.SaveInstance(ctx, inst); err != nil {
			log.Fatalf("save failed: %v", err)
		}
		log.Printf("Stored instance name=%s customers=%d total_demand=%d", inst.Name, inst.Size(), inst.TotalDemand())
		return
	}

	log.Println("Seeding database...")
	if err := repositories.SeedFromJSON(ctx, store.Instances, *seedPath); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Println("Seeding complete.")
}
