// Command wedplan serves, inspects and mirrors the wedding planning document.
package main

func main() {
	Execute()
}
