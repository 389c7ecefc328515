package ratelimit

var DecodeHit = decodeHit

func (s *MemoryStore) Len() int { return s.size() }
