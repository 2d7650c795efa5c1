// Command reconcile repairs drift between activity rosters and their group
// chat rooms. The join/leave path updates two records without a transaction;
// transient divergence is expected and this tool is the convergence pass.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"togedr/backend/internal/models"
	"togedr/backend/internal/storage"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	_ = godotenv.Load()

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		env("DB_HOST", "localhost"),
		env("DB_USER", "user"),
		env("DB_PASSWORD", "password"),
		env("DB_NAME", "togedrdb"),
		env("DB_PORT", "5432"),
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	// No redis needed for the reconcile CLI.
	storageSvc := storage.NewStorageService(db, nil)

	if len(os.Args) < 2 {
		fmt.Println("Usage: reconcile <rooms [activity_id] | orphans>")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "rooms":
		if len(os.Args) > 2 {
			if err := reconcileOne(storageSvc, os.Args[2]); err != nil {
				log.Fatalf("Error reconciling activity %s: %v", os.Args[2], err)
			}
			return
		}
		if err := reconcileAll(storageSvc); err != nil {
			log.Fatalf("Error reconciling rooms: %v", err)
		}
	case "orphans":
		if err := listOrphans(storageSvc); err != nil {
			log.Fatalf("Error listing orphans: %v", err)
		}
	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}

func reconcileAll(s storage.Storage) error {
	activities, err := s.ListActivities()
	if err != nil {
		return err
	}
	var repaired int
	for _, act := range activities {
		added, removed, err := reconcileRoom(s, &act)
		if err != nil {
			log.Printf("WARNING: Skipping activity %s: %v", act.ID, err)
			continue
		}
		if added+removed > 0 {
			repaired++
			fmt.Printf("activity %s: +%d -%d participants\n", act.ID, added, removed)
		}
	}
	fmt.Printf("Reconciled %d of %d activities.\n", repaired, len(activities))
	return nil
}

func reconcileOne(s storage.Storage, activityID string) error {
	act, err := s.GetActivityByID(activityID)
	if err != nil {
		return err
	}
	added, removed, err := reconcileRoom(s, act)
	if err != nil {
		return err
	}
	fmt.Printf("activity %s: +%d -%d participants\n", act.ID, added, removed)
	return nil
}

// reconcileRoom drives the room's participant set to exactly the activity's
// roster. Both mutations are idempotent set operations, so rerunning is safe.
func reconcileRoom(s storage.Storage, act *models.Activity) (added, removed int, err error) {
	room, err := s.GetRoomByID(act.ChatRoomID)
	if err != nil {
		return 0, 0, err
	}

	members := make(map[string]bool, len(act.Members))
	for _, m := range act.Members {
		members[m] = true
	}
	participants := make(map[string]bool, len(room.Participants))
	for _, p := range room.Participants {
		participants[p] = true
	}

	for m := range members {
		if !participants[m] {
			if err := s.AddRoomParticipant(room.RoomID, m); err != nil {
				return added, removed, err
			}
			added++
		}
	}
	for p := range participants {
		if !members[p] {
			if err := s.RemoveRoomParticipant(room.RoomID, p); err != nil {
				return added, removed, err
			}
			removed++
		}
	}
	return added, removed, nil
}

// listOrphans prints group rooms whose activity is gone or was never linked.
// Private match rooms carry no activity reference and are skipped.
func listOrphans(s storage.Storage) error {
	rooms, err := s.ListRooms()
	if err != nil {
		return err
	}
	var count int
	for _, room := range rooms {
		if room.MatchKey != nil {
			continue
		}
		if room.ActivityID == nil {
			count++
			fmt.Printf("room %s: never linked to an activity\n", room.RoomID)
			continue
		}
		if _, err := s.GetActivityByID(*room.ActivityID); errors.Is(err, storage.ErrNotFound) {
			count++
			fmt.Printf("room %s: activity %s no longer exists\n", room.RoomID, *room.ActivityID)
		} else if err != nil {
			return err
		}
	}
	fmt.Printf("Found %d orphaned rooms.\n", count)
	return nil
}
