// flags.go defines constants for all CLI flag names.
//
// Using constants instead of string literals prevents typos and enables
// compile-time checking when flag names are used in both Flags().Type()
// definitions and GetType() calls.
//
// Naming convention: Flag<PascalCaseName> where name matches the kebab-case
// CLI flag (e.g., "dry-run" -> FlagDryRun).

package extension

// Flag name constants for CLI commands.
// These are used with cobra's Flags().Type() and GetType() methods.
const (
	// Boolean flags

	FlagDryRun = "dry-run" // Report without writing
	FlagFlat   = "flat"    // Flatten directory structure
	FlagHidden = "hidden"  // Include hidden files
	FlagLocal  = "local"   // Use local scope
	FlagLong   = "long"    // Long format output
	FlagRaw    = "raw"     // Raw output without formatting

	// String flags

	FlagAs   = "as"   // Target path for save-as
	FlagFile = "file" // Read content from a filesystem file
	FlagKey  = "key"  // Checkpoint key
	FlagPath = "path" // Path prefix filter

	// Integer flags

	FlagLimit = "limit" // Limit number of results
)
