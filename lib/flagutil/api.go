package flagutil

// Size is a flag.Value for a number of bytes. Values may use the K, M, G and T
// binary multipliers, optionally followed by "iB" or "B".
type Size uint64

// StringList is a flag.Value for a comma-separated list of strings.
type StringList []string
