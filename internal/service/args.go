package service

// Accessors for validated arguments. Absent or mistyped values yield the zero value.

// StringArg returns a string argument
func StringArg(args map[string]interface{}, name string) string {
	s, _ := args[name].(string)
	return s
}

// BoolArg returns a boolean argument
func BoolArg(args map[string]interface{}, name string) bool {
	b, _ := args[name].(bool)
	return b
}

// IntArg returns an integer argument
func IntArg(args map[string]interface{}, name string) int64 {
	switch v := args[name].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	}
	return 0
}
