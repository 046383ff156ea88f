// Package shmem maps file-backed shared memory regions.
//
// A Region is typically a file under /dev/shm so that IPI buffers and
// transport state written by one process can be observed by another.
package shmem
