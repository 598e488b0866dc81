package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"civicvoice/backend/internal/complaint"
	"civicvoice/backend/internal/models"
	"civicvoice/backend/internal/storage"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	storageSvc := storage.NewStorageService(db, nil) // No redis needed for admin CLI

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <command> [args]")
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "seed-categories":
		if err := seedCategories(storageSvc); err != nil {
			log.Fatalf("Error seeding categories: %v", err)
		}
		fmt.Println("Categories seeded.")
	case "promote":
		if len(os.Args) != 4 {
			fmt.Println("Usage: admin promote <email> <role>")
			os.Exit(1)
		}
		email, role := os.Args[2], os.Args[3]
		if role != models.RoleCitizen && role != models.RoleGovernment && role != models.RoleAdmin {
			fmt.Printf("Unknown role %q. Valid roles: %s, %s, %s\n",
				role, models.RoleCitizen, models.RoleGovernment, models.RoleAdmin)
			os.Exit(1)
		}
		if err := storageSvc.UpdateUserRole(email, role); err != nil {
			log.Fatalf("Error promoting user: %v", err)
		}
		fmt.Printf("User %s is now %s.\n", email, role)
	case "set-status":
		if len(os.Args) < 4 {
			fmt.Println("Usage: admin set-status <complaint_id> <status> [comment]")
			os.Exit(1)
		}
		complaintID, err := strconv.Atoi(os.Args[2])
		if err != nil {
			fmt.Println("Invalid complaint ID. Please provide an integer.")
			os.Exit(1)
		}
		status := os.Args[3]
		if !models.ValidStatus(status) {
			fmt.Printf("Unknown status %q.\n", status)
			os.Exit(1)
		}
		var comment *string
		if len(os.Args) > 4 {
			comment = &os.Args[4]
		}
		if err := setStatus(storageSvc, uint(complaintID), status, comment); err != nil {
			log.Fatalf("Error updating complaint: %v", err)
		}
		fmt.Printf("Complaint %d set to %s.\n", complaintID, status)
	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}

var defaultCategories = []models.Category{
	{Name: "Roads & Infrastructure"},
	{Name: "Water & Sanitation"},
	{Name: "Electricity"},
	{Name: "Waste Management"},
	{Name: "Public Safety"},
	{Name: "Parks & Recreation"},
	{Name: "Other"},
}

func seedCategories(s storage.Storage) error {
	existing, err := s.ListCategories()
	if err != nil {
		return err
	}
	seen := make(map[string]bool, len(existing))
	for _, c := range existing {
		seen[c.Name] = true
	}
	for _, c := range defaultCategories {
		if seen[c.Name] {
			continue
		}
		category := c
		if err := s.CreateCategory(&category); err != nil {
			return err
		}
	}
	return nil
}

func setStatus(s storage.Storage, complaintID uint, status string, comment *string) error {
	svc := complaint.NewService(s, nil)
	_, err := svc.Update(complaintID, map[string]interface{}{"status": status}, nil, comment)
	return err
}
