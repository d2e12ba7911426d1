package repository

// Len returns the number of stored rows, pending ones included
func (r *MemoryURLRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rows)
}
