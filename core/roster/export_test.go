package roster

// SetAfterRead installs a hook that runs between reading an event file and caching it.
func SetAfterRead(s *Store, fn func(id string)) {
	s.afterRead = fn
}
