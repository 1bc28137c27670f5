package domain

// KeyPrefix namespaces every cache key written by the service.
const KeyPrefix = "simglobe:"
