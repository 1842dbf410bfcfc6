package lang_test

import (
	"context"
	"fmt"
	"os"

	"github.com/ardnew/frisp/lang"
)

func ExampleRun() {
	v, err := lang.Run(context.Background(), `
		(define fib (lambda (n)
		  (if (< n 2) n (+ (fib (- n 1)) (fib (- n 2))))))
		(fib 10)`)
	if err != nil {
		fmt.Println(err)

		return
	}

	fmt.Println(v.Kind(), v)
	// Output: integer 55
}

func ExampleRunWithEnv() {
	ctx := context.Background()
	env := lang.DefaultEnvironment(
		lang.WithOutput(os.Stdout),
		lang.WithArgs("world"),
	)

	if _, err := lang.RunWithEnv(ctx, `(define greet (lambda (who) (str-concat "hello, " who)))`, env); err != nil {
		fmt.Println(err)

		return
	}

	if _, err := lang.RunWithEnv(ctx, `(print (greet (car args)))`, env); err != nil {
		fmt.Println(err)
	}
	// Output: hello, world
}

func ExampleWithScoping() {
	const src = `
		(define make-adder (lambda (n) (lambda (x) (+ x n))))
		(define add5 (make-adder 5))
		(add5 10)`

	v, err := lang.Run(context.Background(), src, lang.WithScoping(lang.ScopeLexical))
	fmt.Println(v, err)
	// Output: 15 <nil>
}

func ExampleFormat() {
	nodes, err := lang.ParseString(`(define   r 10)   # radius
(* r   r)`)
	if err != nil {
		fmt.Println(err)

		return
	}

	if err := lang.Format(context.Background(), os.Stdout, nodes, 2); err != nil {
		fmt.Println(err)
	}
	// Output:
	// (define r 10)
	// (* r r)
}
