/*
Package nand implements reading of raw Wii and Wii U NAND flash dumps.
These are byte-for-byte images of the console's internal flash,
containing an AES-encrypted cluster-based filesystem (SFFS on Wii,
SFS! on Wii U) whose on-flash layout mirrors the pre-mount, ECC/spare
interleaved on-device representation.

Example usage:

	import (
	        "github.com/spf13/afero"

	        "github.com/bodgit/nandextract/nand"
	)

	func extract(dump, outputRoot string) error {
	        fs := afero.NewOsFs()

	        img, err := nand.Open(dump, fs)
	        if err != nil {
	                return err
	        }
	        defer img.Close()

	        w := nand.NewOSWriter(fs)

	        return nand.NewWalker(img, w, nil).Walk(outputRoot)
	}

The package only reads; it never modifies or writes NAND images, does
not verify or correct ECC, and does not interpret extracted file
contents.
*/
package nand
