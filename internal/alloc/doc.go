// Package alloc tracks the append cursor used by rafile's
// RandomAccessFile.Append: every block payload lands at the current
// end-of-file address, which then advances.
//
//	a := alloc.New(0)
//	addr := a.Alloc(1024) // reserves [addr, addr+1024)
package alloc
