package visitor

// Visitor calls supplied callback with every (key, element) pair of a container,
// returning false from the callback stops the visit, returning an error stops it with that error
type Visitor[K comparable, E any] func(func(key K, element E) (bool, error)) error
