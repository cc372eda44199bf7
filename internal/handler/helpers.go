package handler

// Helper functions shared by the handlers

// stringPtr creates a pointer to a string
func stringPtr(s string) *string {
	return &s
}
