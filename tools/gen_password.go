package main

import (
	"flag"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	password := flag.String("password", "admin123", "要哈希的密码")
	flag.Parse()

	bcryptHash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Printf("生成失败: %v\n", err)
		return
	}

	fmt.Printf("原始密码: %s\n", *password)
	fmt.Printf("bcrypt哈希: %s\n", string(bcryptHash))
}
