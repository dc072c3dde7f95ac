package customers

// Seed returns a fresh copy of the mock customers shown on first load.
func Seed() []Customer {
	return []Customer{
		{
			ID: 1, Name: "John Doe", Email: "john@example.com", Phone: "+1 (555) 123-4567",
			Location: "New York, NY", Orders: 12, TotalSpent: 1250.50, Rating: 4.8, Status: StatusActive,
			Avatar: "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=100&h=100&fit=crop&crop=face",
		},
		{
			ID: 2, Name: "Jane Smith", Email: "jane@example.com", Phone: "+1 (555) 987-6543",
			Location: "Los Angeles, CA", Orders: 8, TotalSpent: 890.25, Rating: 4.9, Status: StatusActive,
			Avatar: "https://images.unsplash.com/photo-1438761681033-6461ffad8d80?w=100&h=100&fit=crop&crop=face",
		},
		{
			ID: 3, Name: "Bob Johnson", Email: "bob@example.com", Phone: "+1 (555) 456-7890",
			Location: "Chicago, IL", Orders: 15, TotalSpent: 2100.75, Rating: 4.7, Status: StatusActive,
			Avatar: "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=100&h=100&fit=crop&crop=face",
		},
		{
			ID: 4, Name: "Alice Brown", Email: "alice@example.com", Phone: "+1 (555) 789-0123",
			Location: "Miami, FL", Orders: 5, TotalSpent: 450.00, Rating: 4.6, Status: StatusInactive,
			Avatar: "https://images.unsplash.com/photo-1494790108755-2616b612b524?w=100&h=100&fit=crop&crop=face",
		},
		{
			ID: 5, Name: "Charlie Wilson", Email: "charlie@example.com", Phone: "+1 (555) 234-5678",
			Location: "Seattle, WA", Orders: 20, TotalSpent: 3200.90, Rating: 4.9, Status: StatusActive,
			Avatar: "https://images.unsplash.com/photo-1500648767791-00dcc994a43e?w=100&h=100&fit=crop&crop=face",
		},
	}
}
