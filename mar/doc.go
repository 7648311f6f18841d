// Package mar reads, writes, and verifies Mozilla Archive (MAR) files, the
// container format used to distribute signed Firefox update payloads.
//
// A MAR is a 4-byte magic, a big-endian index offset, an optional signature
// block, an optional additional block, the member payloads, and a trailing
// index. Opening a MAR parses the header, the index, and any signature and
// additional blocks up front; none of them is parsed lazily on first use.
//
//	r, err := mar.Open(f)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, e := range r.List() {
//		fmt.Println(e.Name, e.Size)
//	}
//
// Writing is two-phase: members are streamed through a single shared
// compression codec while their offsets are recorded, then the index and
// any signatures are back-patched once the final length is known.
//
//	w := mar.NewWriter(f, compress.CodecXZ)
//	w.SetProductInfo("release", "99.0")
//	w.AddSigner(sign.SigAlgRsaPkcs1Sha384, signer)
//	w.AddMember("update.manifest", 0644, strings.NewReader("..."))
//	if err := w.Finalize(); err != nil {
//		log.Fatal(err)
//	}
package mar
