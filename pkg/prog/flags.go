package prog

import "flag"

// FlagSet wraps a [flag.FlagSet]. Flags used by more than one program are
// registered through its methods, so that a Composite program registers them
// only once.
type FlagSet struct {
	*flag.FlagSet
	json *bool
	db   *string
	time *bool
}

// JSON returns a pointer to the value of the -json flag.
func (fs *FlagSet) JSON() *bool {
	if fs.json == nil {
		var json bool
		fs.BoolVar(&json, "json", false,
			"Show the output and errors in JSON")
		fs.json = &json
	}
	return fs.json
}

// DB returns a pointer to the value of the -db flag.
func (fs *FlagSet) DB() *string {
	if fs.db == nil {
		var db string
		fs.StringVar(&db, "db", "",
			"Path to the database of compiled programs and run states")
		fs.db = &db
	}
	return fs.db
}

// Time returns a pointer to the value of the -time flag.
func (fs *FlagSet) Time() *bool {
	if fs.time == nil {
		var time bool
		fs.BoolVar(&time, "time", false,
			"Print the time taken by the main stage to stderr")
		fs.time = &time
	}
	return fs.time
}
