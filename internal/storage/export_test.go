package storage

var MapRedisError = mapRedisError
